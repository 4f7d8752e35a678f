package client

import (
	"encoding/xml"

	"github.com/rendau/smsgw/gwTools"
	"github.com/rendau/smsgw/gwTypes"
)

type repsXmlSt struct {
	XMLName xml.Name    `xml:"REPS"`
	Users   []userXmlSt `xml:"USER"`
}

type userXmlSt struct {
	Name     string `xml:"NAME,attr"`
	Mobile   string `xml:"MOBILE,attr"`
	Email    string `xml:"EMAIL,attr"`
	SendTime string `xml:"SENDTIME,attr,omitempty"`
	Content  string `xml:",cdata"`
}

// BuildPersonalizedPayload renders the sendParamSMS document. Mobiles are
// normalized to E.164 with region as the default.
func BuildPersonalizedPayload(msgs []gwTypes.PersonalizedMessage, region string) (string, error) {
	doc := repsXmlSt{
		Users: make([]userXmlSt, 0, len(msgs)),
	}

	for _, msg := range msgs {
		mobile, err := gwTools.NormalizePhone(msg.Mobile, region)
		if err != nil {
			return "", err
		}

		doc.Users = append(doc.Users, userXmlSt{
			Name:     msg.Name,
			Mobile:   mobile,
			Email:    msg.Email,
			SendTime: gwTools.FormatSendTime(msg.SendTime),
			Content:  msg.Content,
		})
	}

	raw, err := xml.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
