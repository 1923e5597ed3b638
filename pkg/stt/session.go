package stt

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/smallestai/waves-go/pkg/errorsx"
	"github.com/smallestai/waves-go/pkg/logging"
	"github.com/smallestai/waves-go/pkg/redact"
)

// endSignal is the control message that tells the recognizer no further
// audio will arrive.
var endSignal = []byte(`{"type":"end"}`)

const eventBuffer = 256

// Session drives one streaming recognition exchange: sequential audio
// chunks go out over the websocket while a background goroutine receives
// partial and final transcript events and reconciles them into a running
// transcript.
//
// Feed and Finish are valid only while the session is Open. Events exposes
// the inbound event sequence in arrival order; the channel closes when the
// stream ends or fails, and Err reports the terminal error afterwards.
// There is no automatic reconnect: audio already streamed cannot be
// replayed, so a lost transport ends the session.
type Session struct {
	cfg    Config
	id     string
	logger *slog.Logger
	conn   Conn
	acc    *Accumulator

	// wmu serializes transport writes. The session mutex is never held
	// across a write, so Close stays prompt while a write is stalled.
	wmu sync.Mutex

	events chan TranscriptEvent

	mu             sync.Mutex
	state          State
	err            error
	graceTimer     *time.Timer
	closedByCaller bool

	stopOnce sync.Once
	done     chan struct{}
	recvDone chan struct{}
}

// Open establishes the streaming connection and starts the background
// receive loop. It fails within the configured dial timeout (default 30s)
// when the transport cannot be established; it never retries.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	timeout := cfg.withDefaults().dialTimeout()
	return openWith(ctx, cfg, wsDialer{handshakeTimeout: timeout})
}

func openWith(ctx context.Context, cfg Config, dialer Dialer) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	wsURL, err := cfg.websocketURL()
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		id:       uuid.NewString(),
		acc:      NewAccumulator(),
		events:   make(chan TranscriptEvent, eventBuffer),
		state:    StateIdle,
		done:     make(chan struct{}),
		recvDone: make(chan struct{}),
	}
	s.logger = logging.NewSessionLogger(slog.Default(), "stt_session", s.id)

	s.setState(StateConnecting)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.dialTimeout())
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, wsURL, header)
	if err != nil {
		s.setState(StateFailed)
		s.logger.Error("session_connect_failed",
			slog.String("error", err.Error()),
			slog.String("reason_code", string(errorsx.Reason(err))))
		return nil, err
	}
	s.conn = conn
	s.setState(StateOpen)

	s.logger.Info("session_connected",
		slog.String("model", cfg.Model),
		slog.String("language", cfg.Language),
		slog.Int("sample_rate", cfg.SampleRate))

	go s.receiveLoop()
	return s, nil
}

// Feed sends one chunk of raw little-endian 16-bit PCM audio. Calls are
// serialized; chunk boundaries and pacing are the caller's concern.
func (s *Session) Feed(chunk []byte) error {
	s.wmu.Lock()
	s.mu.Lock()
	if s.state != StateOpen {
		state := s.state
		s.mu.Unlock()
		s.wmu.Unlock()
		return invalidStateErr("feed", state)
	}
	s.mu.Unlock()
	err := s.conn.WriteMessage(websocket.BinaryMessage, chunk)
	s.wmu.Unlock()

	if err != nil {
		return s.writeFailed("feed", err)
	}
	return nil
}

// Finish signals end-of-audio. The session keeps receiving until the
// recognizer's terminal event arrives; if none does within the finish grace
// period (default 10s) the session fails with a timeout-flavored
// connection error instead of hanging.
func (s *Session) Finish() error {
	s.wmu.Lock()
	s.mu.Lock()
	if s.state != StateOpen {
		state := s.state
		s.mu.Unlock()
		s.wmu.Unlock()
		return invalidStateErr("finish", state)
	}
	s.mu.Unlock()
	err := s.conn.WriteMessage(websocket.TextMessage, endSignal)
	if err != nil {
		s.wmu.Unlock()
		return s.writeFailed("finish", err)
	}
	// The Ending transition lands before the write mutex releases so no
	// Feed can slip a chunk in behind the end signal.
	s.mu.Lock()
	if s.state == StateOpen {
		s.state = StateEnding
		s.graceTimer = time.AfterFunc(s.cfg.finishGrace(), s.onGraceExpired)
	}
	s.mu.Unlock()
	s.wmu.Unlock()

	s.logger.Info("end_signal_sent")
	return nil
}

// writeFailed classifies a failed transport write: a caller-initiated
// Close interrupts the write and surfaces as an invalid-state outcome,
// anything else fails the session.
func (s *Session) writeFailed(op string, err error) error {
	s.mu.Lock()
	interrupted := s.closedByCaller || s.state == StateClosed
	s.mu.Unlock()
	if interrupted {
		return invalidStateErr(op, StateClosed)
	}
	werr := connectionErr(err, errorsx.ReasonSend)
	s.fail(werr)
	return werr
}

// Events returns the ordered sequence of transcript events. The channel is
// finite: it closes once a terminal event arrives, the session fails, or
// Close is called. Check Err after the channel closes.
func (s *Session) Events() <-chan TranscriptEvent {
	return s.events
}

// Err returns the terminal error, if any, once Events has closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns a snapshot of the reconciled transcript and annotations.
func (s *Session) Result() Result {
	return s.acc.Snapshot()
}

// Close releases the transport and stops the receive loop. It is
// idempotent, never fails, and is safe to call concurrently with Feed or
// an in-flight receive.
func (s *Session) Close() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closedByCaller = true
		if s.graceTimer != nil {
			s.graceTimer.Stop()
		}
		s.state = StateClosed
		s.mu.Unlock()

		close(s.done)
		// Closing the transport unblocks a write stalled in Feed or
		// Finish as well as the pending read in the receive loop.
		if s.conn != nil {
			_ = s.conn.Close()
		}

		// Bounded wait so no receive activity dangles past Close.
		select {
		case <-s.recvDone:
		case <-time.After(2 * time.Second):
			s.logger.Warn("receive_loop_slow_shutdown")
		}
		s.logger.Info("session_closed")
	})
	return nil
}

func (s *Session) receiveLoop() {
	defer close(s.recvDone)
	defer close(s.events)

	received := 0
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.onReadError(err)
			return
		}
		received++

		var ev TranscriptEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			perr := protocolErr(err)
			s.logger.Error("malformed_event",
				slog.String("error", err.Error()))
			s.fail(perr)
			return
		}
		if ev.Type == "end" {
			ev.IsLast = true
		}

		if !s.acc.Apply(ev) {
			// Recognizer kept talking after signaling stream end.
			s.logger.Warn("event_after_stream_end")
			continue
		}

		s.logger.Debug("transcript_received",
			slog.Int("ordinal", received),
			slog.String("transcript", s.logText(ev.Transcript)),
			slog.Bool("is_final", ev.IsFinal),
			slog.Bool("is_last", ev.IsLast))

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}

		if ev.Terminal() {
			s.complete(received)
			return
		}
	}
}

func (s *Session) onReadError(err error) {
	s.mu.Lock()
	if s.err == nil && !s.closedByCaller && s.state != StateClosed {
		s.err = connectionErr(err, errorsx.ReasonReceive)
		s.state = StateFailed
		s.logger.Error("session_failed",
			slog.String("error", err.Error()),
			slog.String("reason_code", string(errorsx.ReasonReceive)))
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	s.mu.Unlock()
}

func (s *Session) onGraceExpired() {
	s.mu.Lock()
	// A frozen fold means the terminal event landed just before the timer
	// fired and the closing transition is still in flight.
	if s.state != StateEnding || s.err != nil || s.acc.Frozen() {
		s.mu.Unlock()
		return
	}
	s.err = connectionErr(errTimeoutAwaitingLast, errorsx.ReasonFinishTimeout)
	s.state = StateFailed
	s.mu.Unlock()

	s.logger.Error("finish_grace_expired",
		slog.Int("grace_ms", s.cfg.FinishGraceMS))
	// Closing the conn unblocks the receive loop, which then observes the
	// already-set terminal error.
	_ = s.conn.Close()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	alreadyDone := s.err != nil || s.state == StateClosed || s.closedByCaller
	if !alreadyDone {
		s.err = err
		s.state = StateFailed
		s.logger.Error("session_failed",
			slog.String("error", err.Error()),
			slog.String("reason_code", string(errorsx.Reason(err))))
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	s.mu.Unlock()

	_ = s.conn.Close()
}

func (s *Session) complete(received int) {
	s.mu.Lock()
	if s.graceTimer != nil {
		s.graceTimer.Stop()
	}
	if transitionValid(s.state, StateClosed) {
		s.state = StateClosed
	}
	s.mu.Unlock()

	s.logger.Info("stream_completed",
		slog.Int("events", received),
		slog.String("transcript", s.logText(s.acc.Snapshot().Transcript)))
	_ = s.conn.Close()
}

func (s *Session) setState(to State) {
	s.mu.Lock()
	if transitionValid(s.state, to) {
		s.state = to
	}
	s.mu.Unlock()
}

// logText applies client-side log masking when the caller asked the
// recognizer to redact.
func (s *Session) logText(text string) string {
	if s.cfg.RedactPII {
		text = redact.PII(text)
	}
	if s.cfg.RedactPCI {
		text = redact.PCI(text)
	}
	return text
}
