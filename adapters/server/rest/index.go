package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/adapters/server/https"
	"github.com/rendau/smsgw/client"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTools"
	"github.com/rendau/smsgw/gwTypes"
)

const (
	DefaultJournalLimit = 20
)

// Core is what the handlers need, each call runs in its own gateway session.
type Core interface {
	SendSms(ctx context.Context, msg gwTypes.Message, recipients []string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error)
	SendPersonalizedSms(ctx context.Context, msgs []gwTypes.PersonalizedMessage, subject string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error)
	QueryStatus(ctx context.Context, batchId string, page int) (*gateway.DeliveryStatusRep, error)
	ListJournal(ctx context.Context, limit int) ([]*journal.EntrySt, error)
	GetJournalEntry(ctx context.Context, batchId string) (*journal.EntrySt, error)
}

type St struct {
	core Core
}

type SendReqSt struct {
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
	Recipients []string `json:"recipients"`
	SendTime   string   `json:"send_time"`
}

type SendParamReqSt struct {
	Subject  string         `json:"subject"`
	Messages []MessageReqSt `json:"messages"`
	SendTime string         `json:"send_time"`
}

// MessageReqSt is one personalized message on the wire. SendTime uses the
// same yyyyMMddHHmmss layout as the request level send_time.
type MessageReqSt struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	SendTime string `json:"send_time"`
	Content  string `json:"content"`
}

type StatusParsSt struct {
	Page *int `form:"page"`
}

type JournalParsSt struct {
	Limit int `form:"limit"`
}

func GetHandler(lg logger.WarnAndError, core Core, corsOrigins []string) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(https.MwRecovery(lg))

	if len(corsOrigins) > 0 {
		r.Use(https.MwCors(corsOrigins))
	}

	r.Use(https.MwErrors(lg))

	s := &St{core: core}

	r.POST("/send", s.hSend)
	r.POST("/send-param", s.hSendParam)
	r.GET("/status/:batch_id", s.hStatus)
	r.GET("/journal", s.hJournal)
	r.GET("/journal/:batch_id", s.hJournalEntry)

	return r
}

func (o *St) hSend(c *gin.Context) {
	reqObj := &SendReqSt{}
	if !https.Bind(c, reqObj) {
		return
	}

	if len(reqObj.Recipients) == 0 {
		https.Reply(c, nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "recipients is empty"})
		return
	}

	sendTime, err := ParseSendTime(reqObj.SendTime)
	if err != nil {
		https.Reply(c, nil, err)
		return
	}

	result, err := o.core.SendSms(c.Request.Context(), gwTypes.Message{
		Subject: reqObj.Subject,
		Content: reqObj.Content,
	}, reqObj.Recipients, sendTime)

	https.Reply(c, result, err)
}

func (o *St) hSendParam(c *gin.Context) {
	reqObj := &SendParamReqSt{}
	if !https.Bind(c, reqObj) {
		return
	}

	sendTime, err := ParseSendTime(reqObj.SendTime)
	if err != nil {
		https.Reply(c, nil, err)
		return
	}

	msgs, err := ToMessages(reqObj.Messages)
	if err != nil {
		https.Reply(c, nil, err)
		return
	}

	result, err := o.core.SendPersonalizedSms(c.Request.Context(), msgs, reqObj.Subject, sendTime)

	https.Reply(c, result, err)
}

func (o *St) hStatus(c *gin.Context) {
	pars := &StatusParsSt{}
	if !https.Bind(c, pars) {
		return
	}

	page := client.DefaultPage
	if pars.Page != nil {
		page = *pars.Page
	}

	rep, err := o.core.QueryStatus(c.Request.Context(), c.Param("batch_id"), page)

	https.Reply(c, rep, err)
}

func (o *St) hJournal(c *gin.Context) {
	pars := &JournalParsSt{}
	if !https.Bind(c, pars) {
		return
	}

	if pars.Limit == 0 {
		pars.Limit = DefaultJournalLimit
	}

	entries, err := o.core.ListJournal(c.Request.Context(), pars.Limit)

	https.Reply(c, entries, err)
}

func (o *St) hJournalEntry(c *gin.Context) {
	entry, err := o.core.GetJournalEntry(c.Request.Context(), c.Param("batch_id"))

	https.Reply(c, entry, err)
}

// ParseSendTime reads the gateway's own yyyyMMddHHmmss layout in local time,
// empty means immediate.
func ParseSendTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(gwTools.SendTimeLayout, v, time.Local)
	if err != nil {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "bad send_time: " + err.Error()}
	}

	return &t, nil
}

func ToMessages(reqs []MessageReqSt) ([]gwTypes.PersonalizedMessage, error) {
	result := make([]gwTypes.PersonalizedMessage, 0, len(reqs))

	for i, req := range reqs {
		sendTime, err := ParseSendTime(req.SendTime)
		if err != nil {
			return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "messages[" + strconv.Itoa(i) + "]: bad send_time"}
		}

		result = append(result, gwTypes.PersonalizedMessage{
			Name:     req.Name,
			Mobile:   req.Mobile,
			Email:    req.Email,
			SendTime: sendTime,
			Content:  req.Content,
		})
	}

	return result, nil
}
