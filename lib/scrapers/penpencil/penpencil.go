// Package penpencil is a client for the PenPencil batch API. There is
// no login endpoint: callers always hold a pre-issued bearer token, and
// its validity is only discovered when a call comes back unauthorized.
package penpencil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/restyutil"
	"sdvext-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.penpencil.xyz"

const clientID = "5eb393ee95fab7468a79d189"

type Client struct {
	http *resty.Client
}

func NewClient(baseUrl string) *Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("client-id", clientID)
	client.SetHeader("user-agent", "Android")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "sdvext.scrapers.penpencil.http")
	restyutil.DumpExchanges(client, restyInstrumentOutput)

	return &Client{http: client}
}

// MyBatches fetches one page of the caller's batch list. A 401 maps to
// extract.ErrTokenRejected, any other non-200 to extract.UpstreamError.
func (c *Client) MyBatches(ctx context.Context, token string, page int) ([]Batch, error) {
	ctx, span := tracer.Start(ctx, "MyBatches")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		SetQueryParams(map[string]string{
			"page": strconv.Itoa(page),
			"mode": "1",
		}).
		Get("/v3/batches/my-batches")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 401 {
		return nil, extract.ErrTokenRejected
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var body struct {
		Data []batchRecord `json:"data"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, fmt.Errorf("decode batch page: %w", err)
	}

	batches := make([]Batch, len(body.Data))
	for i, record := range body.Data {
		batches[i] = Batch{
			ID:    record.ID,
			Name:  record.Name,
			Price: record.price(),
		}
	}
	return batches, nil
}

// BatchSubjects returns the subject list of a batch from its details
// endpoint.
func (c *Client) BatchSubjects(ctx context.Context, token, batchID string) ([]Subject, error) {
	ctx, span := tracer.Start(ctx, "BatchSubjects")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		Get(fmt.Sprintf("/v3/batches/%s/details", batchID))
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 401 {
		return nil, extract.ErrTokenRejected
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var body struct {
		Data struct {
			Subjects []Subject `json:"subjects"`
		} `json:"data"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, fmt.Errorf("decode batch details: %w", err)
	}
	return body.Data.Subjects, nil
}

// SubjectContents fetches one page of a subject's content list for the
// given content type tag.
func (c *Client) SubjectContents(ctx context.Context, token, batchID, subjectID, contentType string, page int) ([]Content, error) {
	ctx, span := tracer.Start(ctx, "SubjectContents")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		SetQueryParams(map[string]string{
			"page":        strconv.Itoa(page),
			"contentType": contentType,
		}).
		Get(fmt.Sprintf("/v2/batches/%s/subject/%s/contents", batchID, subjectID))
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 401 {
		return nil, extract.ErrTokenRejected
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var body struct {
		Data []Content `json:"data"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, fmt.Errorf("decode content page: %w", err)
	}
	return body.Data, nil
}
