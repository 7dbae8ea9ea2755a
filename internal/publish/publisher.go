// Package publish держит одно сообщение-сводку в канале: правит его на месте,
// а если его удалили — отправляет новое и запоминает его id.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrTargetNotFound — сообщение для правки не найдено (его удалили).
var ErrTargetNotFound = errors.New("summary message not found")

// Messenger — отправка и правка сообщений в канале сводки.
// EditMessage должен возвращать ошибку, для которой errors.Is(err, ErrTargetNotFound),
// если сообщения больше нет.
type Messenger interface {
	SendMessage(ctx context.Context, content string) (string, error)
	EditMessage(ctx context.Context, messageID, content string) error
}

// HandleSaver сохраняет текущий id сводки ("" — сводки нет).
type HandleSaver interface {
	SaveHandle(ctx context.Context, handle string) error
}

// Result — что произошло за один вызов Publish.
type Result int

const (
	Edited Result = iota + 1
	Sent
	Republished // старое сообщение пропало, отправлено новое
)

func (r Result) String() string {
	switch r {
	case Edited:
		return "edited"
	case Sent:
		return "sent"
	case Republished:
		return "republished"
	default:
		return "none"
	}
}

type Publisher struct {
	msg   Messenger
	saver HandleSaver
	log   *slog.Logger

	cycleMu sync.Mutex // один Publish за раз

	mu     sync.Mutex
	handle string
}

// New создаёт публикатор с уже известным id (из сохранённого состояния).
func New(msg Messenger, saver HandleSaver, handle string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{msg: msg, saver: saver, handle: handle, log: logger}
}

// Handle — текущий id сводки, "" если её нет.
func (p *Publisher) Handle() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

func (p *Publisher) setHandle(h string) {
	p.mu.Lock()
	p.handle = h
	p.mu.Unlock()
}

// Publish правит сводку по сохранённому id или отправляет новую.
//
//   - нет id -> отправка, id сохраняется;
//   - есть id -> правка; id не меняется, сохранять нечего;
//   - правка вернула ErrTargetNotFound -> id сбрасывается, в этом же вызове
//     отправляется новое сообщение и сохраняется его id;
//   - любая другая ошибка правки возвращается, id и хранилище не трогаем.
//
// Ошибка сохранения только логируется: состояние в памяти главнее.
func (p *Publisher) Publish(ctx context.Context, content string) (Result, error) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	result := Sent
	if h := p.Handle(); h != "" {
		err := p.msg.EditMessage(ctx, h, content)
		if err == nil {
			p.log.Debug("summary edited", "message_id", h)
			return Edited, nil
		}
		if !errors.Is(err, ErrTargetNotFound) {
			return 0, fmt.Errorf("edit summary %s: %w", h, err)
		}
		p.log.Info("summary message is gone, publishing a new one", "message_id", h)
		p.setHandle("")
		result = Republished
	}

	id, err := p.msg.SendMessage(ctx, content)
	if err != nil {
		if result == Republished {
			p.persist(ctx, "")
		}
		return 0, fmt.Errorf("send summary: %w", err)
	}
	p.setHandle(id)
	p.persist(ctx, id)
	p.log.Debug("summary sent", "message_id", id)
	return result, nil
}

func (p *Publisher) persist(ctx context.Context, handle string) {
	if p.saver == nil {
		return
	}
	if err := p.saver.SaveHandle(ctx, handle); err != nil {
		p.log.Error("save summary handle", "message_id", handle, "err", err)
	}
}
