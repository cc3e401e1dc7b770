package penpencil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMyBatches(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/penpencil")
	defer cleanup()
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/batches/my-batches", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("mode") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			w.Write([]byte(`{"data":[
				{"_id":"b1","name":"Lakshya JEE","feeId":{"total":4999}},
				{"_id":"b2","name":"Arjuna NEET","feeId":{"total":"2999"}},
				{"_id":"b3","name":"Free Trial"},
				{"_id":"b4","name":"Null Fee","feeId":{"total":null}}
			]}`))
		default:
			w.Write([]byte(`{"data":[]}`))
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL)

	batches, err := client.MyBatches(ctx, "tok", 1)
	require.NoError(t, err)
	diff := cmp.Diff([]Batch{
		{ID: "b1", Name: "Lakshya JEE", Price: "4999"},
		{ID: "b2", Name: "Arjuna NEET", Price: "2999"},
		{ID: "b3", Name: "Free Trial", Price: "Free"},
		{ID: "b4", Name: "Null Fee", Price: "Free"},
	}, batches)
	if diff != "" {
		t.Fatal(diff)
	}

	empty, err := client.MyBatches(ctx, "tok", 2)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = client.MyBatches(ctx, "expired", 1)
	require.ErrorIs(t, err, extract.ErrTokenRejected)
}

func TestMyBatchesUpstreamError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/penpencil")
	defer cleanup()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).MyBatches(ctx, "tok", 1)
	var upstream *extract.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 502, upstream.Status)
}

func TestBatchSubjects(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/penpencil")
	defer cleanup()
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/batches/b1/details", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"subjects":[
			{"_id":"s1","subject":"Physics"},
			{"_id":"s2","subject":"Chemistry"}
		]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	subjects, err := NewClient(server.URL).BatchSubjects(ctx, "tok", "b1")
	require.NoError(t, err)
	diff := cmp.Diff([]Subject{
		{ID: "s1", Name: "Physics"},
		{ID: "s2", Name: "Chemistry"},
	}, subjects)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSubjectContents(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/penpencil")
	defer cleanup()
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/batches/b1/subject/s1/contents", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("contentType") != "notes" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"data":[{
			"topic":"Vectors",
			"homeworkIds":[{
				"topic":"Vectors Notes",
				"attachmentIds":[{"baseUrl":"https://cdn.pw/","key":"vectors.pdf"}]
			}]
		}]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	contents, err := NewClient(server.URL).SubjectContents(ctx, "tok", "b1", "s1", "notes", 1)
	require.NoError(t, err)
	diff := cmp.Diff([]Content{{
		Topic: "Vectors",
		HomeworkIDs: []Homework{{
			Topic:         "Vectors Notes",
			AttachmentIDs: []Attachment{{BaseURL: "https://cdn.pw/", Key: "vectors.pdf"}},
		}},
	}}, contents)
	if diff != "" {
		t.Fatal(diff)
	}
}
