package soap

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"github.com/rendau/smsgw/adapters/client/httpc"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
)

type St struct {
	lg        logger.Lite
	httpc     httpc.HttpC
	namespace string
}

var _ gateway.Transport = (*St)(nil)

func New(lg logger.Lite, httpc httpc.HttpC, namespace string) *St {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &St{
		lg:        lg,
		httpc:     httpc,
		namespace: namespace,
	}
}

func (s *St) GetConnection(ctx context.Context, account, password string) (string, error) {
	res, err := s.call(ctx, gateway.OpGetConnection, getConnectionReqSt{
		Xmlns:    s.namespace,
		Account:  account,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	return res.Chardata, nil
}

func (s *St) CloseConnection(ctx context.Context, session string) (string, error) {
	res, err := s.call(ctx, gateway.OpCloseConnection, closeConnectionReqSt{
		Xmlns:      s.namespace,
		SessionKey: session,
	})
	if err != nil {
		return "", err
	}

	return res.Chardata, nil
}

func (s *St) SendSMS(ctx context.Context, session, subject, content, recipients, sendTime string) (string, error) {
	res, err := s.call(ctx, gateway.OpSendSMS, sendSMSReqSt{
		Xmlns:      s.namespace,
		SessionKey: session,
		Subject:    subject,
		Content:    content,
		Mobile:     recipients,
		SendTime:   sendTime,
	})
	if err != nil {
		return "", err
	}

	return res.Chardata, nil
}

func (s *St) SendParamSMS(ctx context.Context, session, subject, xmlPayload, sendTime string) (string, error) {
	res, err := s.call(ctx, gateway.OpSendParamSMS, sendParamSMSReqSt{
		Xmlns:      s.namespace,
		SessionKey: session,
		Subject:    subject,
		Content:    xmlPayload,
		SendTime:   sendTime,
	})
	if err != nil {
		return "", err
	}

	return res.Chardata, nil
}

func (s *St) GetDeliveryStatus(ctx context.Context, session, batchId, page string) (*gateway.DeliveryStatusRep, error) {
	res, err := s.call(ctx, gateway.OpGetDeliveryStatus, getDeliveryStatusReqSt{
		Xmlns:      s.namespace,
		SessionKey: session,
		BatchId:    batchId,
		PageNo:     page,
	})
	if err != nil {
		return nil, err
	}

	// structured results are passed through as raw xml
	if len(res.Items) > 0 {
		return &gateway.DeliveryStatusRep{Result: strings.TrimSpace(res.Inner)}, nil
	}

	return &gateway.DeliveryStatusRep{Result: res.Chardata}, nil
}

// call posts the envelope and returns the {op}Result element.
func (s *St) call(ctx context.Context, op string, req any) (elementSt, error) {
	rep := envelopeRepSt{}

	repBody, _, err := s.httpc.SendXmlRecvXml(ctx, newEnvelope(req), &rep, httpc.OptionsSt{
		Headers:   http.Header{"Soapaction": {`"` + s.namespace + op + `"`}},
		LogPrefix: op + ": ",
	})
	if err != nil {
		if errors.Is(err, gwErrs.BadStatusCode) && len(repBody) > 0 {
			if faultErr := parseFault(repBody); faultErr != nil {
				return elementSt{}, faultErr
			}
		}
		return elementSt{}, err
	}

	if rep.Body.Fault != nil {
		return elementSt{}, faultError(rep.Body.Fault)
	}

	for _, item := range rep.Body.Items {
		if item.XMLName.Local != op+"Response" {
			continue
		}

		if res, ok := item.child(op + "Result"); ok {
			return res, nil
		}

		// an empty response element means the result itself was empty
		return elementSt{}, nil
	}

	s.lg.Errorw(op+": Response element not found", nil, "rep_body", string(repBody))

	return elementSt{}, gwErrs.ErrWithDesc{Err: gwErrs.BadResponse, Desc: op + "Response not found"}
}

func parseFault(body []byte) error {
	rep := envelopeRepSt{}

	if xml.Unmarshal(body, &rep) != nil || rep.Body.Fault == nil {
		return nil
	}

	return faultError(rep.Body.Fault)
}

func faultError(f *faultSt) error {
	return gwErrs.ErrWithDesc{
		Err:  gwErrs.SoapFault,
		Desc: strings.TrimSpace(f.Code + " " + f.String),
	}
}
