package client

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rendau/smsgw/adapters/cache"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTools"
	"github.com/rendau/smsgw/gwTypes"
)

const DefaultPage = 1

// SendSms sends one text to all recipients. Recipients go out as given, a nil
// sendTime means immediately.
func (c *St) SendSms(ctx context.Context, msg gwTypes.Message, recipients []string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error) {
	raw, err := c.transport.SendSMS(
		ctx,
		c.Session(),
		msg.Subject,
		msg.Content,
		gwTools.JoinRecipients(recipients),
		gwTools.FormatSendTime(sendTime),
	)
	if err != nil {
		c.lg.Errorw("Fail to send sms", err, "recipients", len(recipients))
		return nil, err
	}

	result := DecodeSendResponse(raw, false)

	c.afterSend(ctx, result, raw, journal.KindSms, msg.Subject, len(recipients))

	return result, nil
}

// SendPersonalizedSms sends a distinct text per recipient in one call.
func (c *St) SendPersonalizedSms(ctx context.Context, msgs []gwTypes.PersonalizedMessage, subject string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error) {
	payload, err := BuildPersonalizedPayload(msgs, c.opts.PhoneRegion)
	if err != nil {
		c.lg.Warnw("Fail to build personalized payload", "error", err)
		return nil, err
	}

	raw, err := c.transport.SendParamSMS(
		ctx,
		c.Session(),
		subject,
		payload,
		gwTools.FormatSendTime(sendTime),
	)
	if err != nil {
		c.lg.Errorw("Fail to send personalized sms", err, "recipients", len(msgs))
		return nil, err
	}

	result := DecodeSendResponse(raw, true)

	c.afterSend(ctx, result, raw, journal.KindParamSms, subject, len(msgs))

	return result, nil
}

func (c *St) afterSend(ctx context.Context, result *gwTypes.Result[*gwTypes.SendResult], raw, kind, subject string, recipients int) {
	if result.Status != gwTypes.StatusSuccess {
		c.lg.Warnw("Sms not accepted",
			"kind", kind,
			"status", result.Status.String(),
			"message", result.Message,
			"raw", raw,
		)
		return
	}

	rep := result.Payload

	c.lg.Debugw("Sms accepted",
		"kind", kind,
		"batch_id", rep.BatchId.String(),
		"sent", rep.Sent,
		"unsent", rep.Unsent,
		"credit", rep.Credit,
	)

	if c.opts.Journal == nil || rep.BatchId == uuid.Nil {
		return
	}

	err := c.opts.Journal.Add(ctx, &journal.EntrySt{
		BatchId:    rep.BatchId,
		Kind:       kind,
		Subject:    subject,
		Recipients: recipients,
		Credit:     rep.Credit,
		Sent:       rep.Sent,
		Cost:       rep.Cost,
		Unsent:     rep.Unsent,
		CreatedAt:  c.opts.Now(),
	})
	if err != nil {
		c.lg.Errorw("Fail to journal batch", err, "batch_id", rep.BatchId.String())
	}
}

// QueryStatus returns the provider's delivery report for a batch page as is.
// page starts at DefaultPage.
func (c *St) QueryStatus(ctx context.Context, batchId string, page int) (*gateway.DeliveryStatusRep, error) {
	if page < 1 {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "page must be >= 1"}
	}

	pageStr := strconv.Itoa(page)
	cacheKey := cache.DeliveryStatus.Key(batchId, pageStr)

	if c.opts.StatusCache != nil {
		cached := &gateway.DeliveryStatusRep{}

		ok, err := c.opts.StatusCache.GetJsonObj(ctx, cacheKey, cached)
		if err != nil {
			c.lg.Warnw("Fail to read status cache", "error", err, "key", cacheKey)
		} else if ok {
			return cached, nil
		}
	}

	rep, err := c.transport.GetDeliveryStatus(ctx, c.Session(), batchId, pageStr)
	if err != nil {
		c.lg.Errorw("Fail to get delivery status", err, "batch_id", batchId, "page", page)
		return nil, err
	}

	if c.opts.StatusCache != nil && rep != nil {
		err = c.opts.StatusCache.SetJsonObj(ctx, cacheKey, rep, c.opts.StatusCacheTtl)
		if err != nil {
			c.lg.Warnw("Fail to write status cache", "error", err, "key", cacheKey)
		}
	}

	return rep, nil
}
