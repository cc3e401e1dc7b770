// Package kgs is a client for the KGS mobile API. It speaks the same
// header set as the android app (okhttp user agent, bearer tokens).
package kgs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/restyutil"
	"sdvext-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://khanglobalstudies.com"

type Client struct {
	http *resty.Client
}

func NewClient(baseUrl string) *Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("Host", "khanglobalstudies.com")
	client.SetHeader("accept-encoding", "gzip")
	client.SetHeader("user-agent", "okhttp/3.9.1")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "sdvext.scrapers.kgs.http")
	restyutil.DumpExchanges(client, restyInstrumentOutput)

	return &Client{http: client}
}

type Course struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
}

type Lesson struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type Video struct {
	Name     string `json:"name"`
	VideoURL string `json:"video_url"`
}

// LoginPhonePassword exchanges a phone/password pair for a bearer
// token. Every failure mode (transport, non-200, malformed body,
// missing token field) comes back as extract.ErrAuthFailed.
func (c *Client) LoginPhonePassword(ctx context.Context, phone, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "LoginPhonePassword")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"phone":    phone,
			"password": password,
		}).
		Post("/api/login-with-password")
	if err != nil {
		return "", fmt.Errorf("%w: %s", extract.ErrAuthFailed, err)
	}
	if res.StatusCode() != 200 {
		return "", fmt.Errorf("%w: login returned status %d", extract.ErrAuthFailed, res.StatusCode())
	}

	var body struct {
		Token string `json:"token"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return "", fmt.Errorf("%w: malformed login response", extract.ErrAuthFailed)
	}
	if body.Token == "" {
		return "", fmt.Errorf("%w: no token in login response", extract.ErrAuthFailed)
	}
	return body.Token, nil
}

// Courses returns the full course list for the token. The upstream
// endpoint is not paginated.
func (c *Client) Courses(ctx context.Context, token string) ([]Course, error) {
	ctx, span := tracer.Start(ctx, "Courses")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		Get("/api/user/v2/courses")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var courses []Course
	err = json.Unmarshal(res.Body(), &courses)
	if err != nil {
		return nil, fmt.Errorf("decode course list: %w", err)
	}
	return courses, nil
}

func (c *Client) Lessons(ctx context.Context, token, batchID string) ([]Lesson, error) {
	ctx, span := tracer.Start(ctx, "Lessons")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		Get(fmt.Sprintf("/api/user/courses/%s/v2-lessons", batchID))
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var lessons []Lesson
	err = json.Unmarshal(res.Body(), &lessons)
	if err != nil {
		return nil, fmt.Errorf("decode lesson list: %w", err)
	}
	return lessons, nil
}

// LessonVideos fetches one lesson's detail and returns its videos
// sub-list.
func (c *Client) LessonVideos(ctx context.Context, token, lessonID string) ([]Video, error) {
	ctx, span := tracer.Start(ctx, "LessonVideos")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", "Bearer "+token).
		Get(fmt.Sprintf("/api/lessons/%s", lessonID))
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, &extract.UpstreamError{Status: res.StatusCode()}
	}

	var body struct {
		Videos []Video `json:"videos"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, fmt.Errorf("decode lesson detail: %w", err)
	}
	return body.Videos, nil
}
