package soap

import "encoding/xml"

const (
	DefaultNamespace = "http://tempuri.org/"

	envNs = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNs = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNs = "http://www.w3.org/2001/XMLSchema"
)

// request

type envelopeSt struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	Xsi     string   `xml:"xmlns:xsi,attr"`
	Xsd     string   `xml:"xmlns:xsd,attr"`
	Soap    string   `xml:"xmlns:soap,attr"`
	Body    bodySt   `xml:"soap:Body"`
}

type bodySt struct {
	Content any
}

func newEnvelope(content any) envelopeSt {
	return envelopeSt{
		Xsi:  xsiNs,
		Xsd:  xsdNs,
		Soap: envNs,
		Body: bodySt{Content: content},
	}
}

type getConnectionReqSt struct {
	XMLName  xml.Name `xml:"getConnection"`
	Xmlns    string   `xml:"xmlns,attr"`
	Account  string   `xml:"account"`
	Password string   `xml:"password"`
}

type closeConnectionReqSt struct {
	XMLName    xml.Name `xml:"closeConnection"`
	Xmlns      string   `xml:"xmlns,attr"`
	SessionKey string   `xml:"sessionKey"`
}

type sendSMSReqSt struct {
	XMLName    xml.Name `xml:"sendSMS"`
	Xmlns      string   `xml:"xmlns,attr"`
	SessionKey string   `xml:"sessionKey"`
	Subject    string   `xml:"subject"`
	Content    string   `xml:"content"`
	Mobile     string   `xml:"mobile"`
	SendTime   string   `xml:"sendTime"`
}

type sendParamSMSReqSt struct {
	XMLName    xml.Name `xml:"sendParamSMS"`
	Xmlns      string   `xml:"xmlns,attr"`
	SessionKey string   `xml:"sessionKey"`
	Subject    string   `xml:"subject"`
	Content    string   `xml:"content"`
	SendTime   string   `xml:"sendTime"`
}

type getDeliveryStatusReqSt struct {
	XMLName    xml.Name `xml:"getDeliveryStatus"`
	Xmlns      string   `xml:"xmlns,attr"`
	SessionKey string   `xml:"sessionKey"`
	BatchId    string   `xml:"batchID"`
	PageNo     string   `xml:"pageNo"`
}

// response

type envelopeRepSt struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *faultSt    `xml:"Fault"`
		Items []elementSt `xml:",any"`
	} `xml:"Body"`
}

type faultSt struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type elementSt struct {
	XMLName  xml.Name
	Chardata string      `xml:",chardata"`
	Inner    string      `xml:",innerxml"`
	Items    []elementSt `xml:",any"`
}

func (e elementSt) child(local string) (elementSt, bool) {
	for _, item := range e.Items {
		if item.XMLName.Local == local {
			return item, true
		}
	}

	return elementSt{}, false
}
