package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	sends   []string
	edits   []string // id правленых сообщений
	nextID  int
	editErr error
	sendErr error
}

func (f *fakeMessenger) SendMessage(_ context.Context, content string) (string, error) {
	f.sends = append(f.sends, content)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakeMessenger) EditMessage(_ context.Context, id, _ string) error {
	f.edits = append(f.edits, id)
	return f.editErr
}

type fakeSaver struct {
	saved []string
	err   error
}

func (f *fakeSaver) SaveHandle(_ context.Context, h string) error {
	f.saved = append(f.saved, h)
	return f.err
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPublish_FirstSendPersistsHandle(t *testing.T) {
	m, s := &fakeMessenger{}, &fakeSaver{}
	p := New(m, s, "", quietLogger())

	res, err := p.Publish(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, Sent, res)
	assert.Equal(t, "msg-1", p.Handle())
	assert.Equal(t, []string{"msg-1"}, s.saved)
	assert.Empty(t, m.edits)
}

func TestPublish_RepublishSameContentEditsOnly(t *testing.T) {
	m, s := &fakeMessenger{}, &fakeSaver{}
	p := New(m, s, "msg-7", quietLogger())

	for i := 0; i < 2; i++ {
		res, err := p.Publish(context.Background(), "same")
		require.NoError(t, err)
		assert.Equal(t, Edited, res)
	}
	assert.Equal(t, []string{"msg-7", "msg-7"}, m.edits)
	assert.Empty(t, m.sends)
	assert.Empty(t, s.saved)
	assert.Equal(t, "msg-7", p.Handle())
}

func TestPublish_SingleEditWithHandle(t *testing.T) {
	m, s := &fakeMessenger{}, &fakeSaver{}
	p := New(m, s, "", quietLogger())

	_, err := p.Publish(context.Background(), "one")
	require.NoError(t, err)
	_, err = p.Publish(context.Background(), "one")
	require.NoError(t, err)

	assert.Len(t, m.sends, 1)
	assert.Len(t, m.edits, 1)
}

func TestPublish_NotFoundRepublishes(t *testing.T) {
	m := &fakeMessenger{editErr: fmt.Errorf("discord: %w", ErrTargetNotFound), nextID: 41}
	s := &fakeSaver{}
	p := New(m, s, "msg-old", quietLogger())

	res, err := p.Publish(context.Background(), "content")
	require.NoError(t, err)
	assert.Equal(t, Republished, res)
	assert.Equal(t, []string{"msg-old"}, m.edits)
	assert.Equal(t, []string{"content"}, m.sends)
	assert.Equal(t, "msg-42", p.Handle())
	require.NotEmpty(t, s.saved)
	assert.Equal(t, "msg-42", s.saved[len(s.saved)-1])
}

func TestPublish_OtherEditErrorKeepsState(t *testing.T) {
	m := &fakeMessenger{editErr: errors.New("403 missing permissions")}
	s := &fakeSaver{}
	p := New(m, s, "msg-1", quietLogger())

	_, err := p.Publish(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "msg-1", p.Handle())
	assert.Empty(t, m.sends)
	assert.Empty(t, s.saved)
}

func TestPublish_SendFailsAfterNotFound(t *testing.T) {
	m := &fakeMessenger{editErr: ErrTargetNotFound, sendErr: errors.New("boom")}
	s := &fakeSaver{}
	p := New(m, s, "msg-1", quietLogger())

	_, err := p.Publish(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "", p.Handle())
	assert.Equal(t, []string{""}, s.saved)
}

func TestPublish_SendFailsWithoutHandle(t *testing.T) {
	m := &fakeMessenger{sendErr: errors.New("boom")}
	s := &fakeSaver{}
	p := New(m, s, "", quietLogger())

	_, err := p.Publish(context.Background(), "x")
	require.Error(t, err)
	assert.Empty(t, s.saved)
}

func TestPublish_SaveErrorIsNotFatal(t *testing.T) {
	m := &fakeMessenger{}
	s := &fakeSaver{err: errors.New("store down")}
	p := New(m, s, "", quietLogger())

	res, err := p.Publish(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, Sent, res)
	assert.Equal(t, "msg-1", p.Handle())
}
