package gwTools

import (
	"reflect"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/spf13/viper"
)

const (
	SendTimeLayout = "20060102150405"

	DefaultPhoneRegion = "TW"
)

// FormatSendTime renders a schedule for the gateway. nil means "send now" and
// yields an empty string.
func FormatSendTime(v *time.Time) string {
	if v == nil {
		return ""
	}

	return v.Format(SendTimeLayout)
}

func NormalizePhone(p string, region string) (string, error) {
	if region == "" {
		region = DefaultPhoneRegion
	}

	num, err := phonenumbers.Parse(p, region)
	if err != nil {
		return "", gwErrs.ErrWithDesc{
			Err:  gwErrs.BadPhone,
			Desc: p + ": " + err.Error(),
		}
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func JoinRecipients(v []string) string {
	return strings.Join(v, ",")
}

func SetViperDefaultsFromObj(obj any) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	fields := reflect.VisibleFields(v.Type())

	var fieldTag string
	var tagName string

	for _, field := range fields {
		if field.Anonymous || !field.IsExported() {
			continue
		}

		fieldTag = field.Tag.Get("mapstructure")
		if fieldTag == "" {
			continue
		}

		tagName = strings.SplitN(fieldTag, ",", 2)[0]

		viper.SetDefault(tagName, v.FieldByIndex(field.Index).Interface())
	}
}
