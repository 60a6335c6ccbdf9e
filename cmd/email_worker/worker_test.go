package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/pkg/mailer"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	out []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, sent{to, subject, text, html})
	return nil
}

func encode(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleWelcome(t *testing.T) {
	fs := &fakeSender{}
	w := &worker{sender: fs, timeout: time.Second}

	data := mailtpl.NewWelcomeData("Tasks", "Alice", "alice@x.io", mailtpl.WithAppURL("http://app.test"))
	got := w.handle(context.Background(), encode(t, mailer.EmailJob{To: "alice@x.io", Template: "Welcome", Data: data}))

	assert.Equal(t, outcomeAck, got)
	require.Len(t, fs.out, 1)
	assert.Equal(t, "alice@x.io", fs.out[0].to)
	assert.NotEmpty(t, fs.out[0].subject)
	assert.Contains(t, fs.out[0].html, "Alice")
}

func TestHandlePlainMessage(t *testing.T) {
	fs := &fakeSender{}
	w := &worker{sender: fs, timeout: time.Second}

	got := w.handle(context.Background(), encode(t, mailer.EmailJob{To: "bob@x.io", Subject: "Hi", Text: "hello"}))
	assert.Equal(t, outcomeAck, got)
	require.Len(t, fs.out, 1)
	assert.Equal(t, sent{"bob@x.io", "Hi", "hello", ""}, fs.out[0])
}

func TestHandleFailures(t *testing.T) {
	w := &worker{sender: &fakeSender{}, timeout: time.Second}
	ctx := context.Background()

	assert.Equal(t, outcomeDrop, w.handle(ctx, []byte("{not json")))
	assert.Equal(t, outcomeDrop, w.handle(ctx, encode(t, mailer.EmailJob{Subject: "no recipient"})))
	assert.Equal(t, outcomeDrop, w.handle(ctx, encode(t, mailer.EmailJob{To: "a@x.io", Template: "missing"})))

	w.sender = &fakeSender{err: errors.New("mailgun down")}
	assert.Equal(t, outcomeRequeue, w.handle(ctx, encode(t, mailer.EmailJob{To: "a@x.io", Subject: "s", Text: "t"})))
}
