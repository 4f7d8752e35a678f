package httpc

import (
	"net/http"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func TestGetMergedWith(t *testing.T) {
	base := OptionsSt{
		BaseUrl:       "http://gw/SMS.asmx",
		BaseHeaders:   http.Header{"X-A": {"1"}},
		BaseLogPrefix: "gw: ",
		Method:        http.MethodPost,
		LogFlags:      LogRequest,
		Timeout:       5 * time.Second,
	}

	tests := []struct {
		v    OptionsSt
		want OptionsSt
	}{
		{
			v:    OptionsSt{},
			want: base,
		},
		{
			v: OptionsSt{
				Path:      "x",
				LogPrefix: "sendSMS: ",
				LogFlags:  LogResponse,
				Timeout:   time.Second,
			},
			want: OptionsSt{
				BaseUrl:       "http://gw/SMS.asmx",
				BaseHeaders:   http.Header{"X-A": {"1"}},
				BaseLogPrefix: "gw: ",
				Method:        http.MethodPost,
				Path:          "x",
				LogFlags:      LogResponse,
				LogPrefix:     "sendSMS: ",
				Timeout:       time.Second,
			},
		},
		{
			v: OptionsSt{
				BaseLogPrefix: "-",
				Method:        "-",
				LogFlags:      -1,
				Timeout:       -1,
			},
			want: OptionsSt{
				BaseUrl:     "http://gw/SMS.asmx",
				BaseHeaders: http.Header{"X-A": {"1"}},
			},
		},
	}
	for ttI, tt := range tests {
		t.Run(strconv.Itoa(ttI+1), func(t *testing.T) {
			if got := base.GetMergedWith(tt.v); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetMergedWith() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAllHeaders(t *testing.T) {
	opts := OptionsSt{
		BaseHeaders: http.Header{"Content-Type": {"a"}, "X-Base": {"b"}},
		Headers:     http.Header{"Content-Type": {ContentTypeXml}},
	}

	want := http.Header{"Content-Type": {ContentTypeXml}, "X-Base": {"b"}}
	if got := opts.AllHeaders(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllHeaders() = %v, want %v", got, want)
	}
}
