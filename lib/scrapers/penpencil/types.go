package penpencil

import (
	"encoding/json"
	"strings"
)

type Batch struct {
	ID   string
	Name string
	// Price is the fee total rendered as text, or the literal "Free"
	// when the batch carries no fee record.
	Price string
}

// batchRecord is the wire shape of one entry in the my-batches data
// list.
type batchRecord struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Fee  *struct {
		Total json.RawMessage `json:"total"`
	} `json:"feeId"`
}

func (r batchRecord) price() string {
	if r.Fee == nil || len(r.Fee.Total) == 0 || string(r.Fee.Total) == "null" {
		return "Free"
	}
	// total is a number for paid batches but has shown up as a string,
	// render either without the quotes
	var asString string
	if err := json.Unmarshal(r.Fee.Total, &asString); err == nil {
		return asString
	}
	return strings.TrimSpace(string(r.Fee.Total))
}

type Subject struct {
	ID   string `json:"_id"`
	Name string `json:"subject"`
}

// Content is one record of a subject's content list. Which fields are
// populated depends on the contentType tag the page was fetched with.
type Content struct {
	Topic       string     `json:"topic"`
	URL         string     `json:"url"`
	HomeworkIDs []Homework `json:"homeworkIds"`
}

type Homework struct {
	Topic         string       `json:"topic"`
	AttachmentIDs []Attachment `json:"attachmentIds"`
}

type Attachment struct {
	BaseURL string `json:"baseUrl"`
	Key     string `json:"key"`
}
