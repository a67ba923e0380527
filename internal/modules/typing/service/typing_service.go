package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	backgrounddto "typetrack/internal/modules/background/dto"
	themedto "typetrack/internal/modules/theme/dto"
	"typetrack/internal/modules/typing/domain"
	"typetrack/internal/modules/typing/dto"
	typingout "typetrack/internal/modules/typing/port/out"
	"typetrack/internal/platform/clock"
)

// TypingService measures typing time for one practice surface and reports it.
// The UI loop and the scheduler goroutines share it.
type TypingService struct {
	tabID  int
	clock  clock.Clock
	sender typingout.Sender
	logger hclog.Logger

	mu      sync.Mutex
	acc     domain.Accumulator
	watch   domain.ThemeWatch
	total   float64
	reports int
	dropped int
}

func NewTypingService(tabID int, clk clock.Clock, sender typingout.Sender, logger hclog.Logger) *TypingService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TypingService{tabID: tabID, clock: clk, sender: sender, logger: logger}
}

func (s *TypingService) RecordKeystroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed, counted := s.acc.Record(s.clock.Now())
	if !counted {
		s.logger.Debug("ignoring afk period", "elapsed", elapsed)
	}
}

// Flush reports the accumulated minutes. The accumulator is reset even when
// the send fails.
func (s *TypingService) Flush(ctx context.Context) (dto.FlushOutput, error) {
	s.mu.Lock()
	pending := s.acc.Drain()
	s.mu.Unlock()
	if pending == 0 {
		return dto.FlushOutput{}, nil
	}

	minutes := domain.Minutes(pending)
	s.logger.Debug("sending saveTimeTyping", "minutes", minutes)
	resp, err := s.sender.Send(ctx, backgrounddto.SaveTimeTyping(minutes, s.clock.Now()))
	if err != nil {
		s.countDropped()
		s.logger.Error("save time typing", "minutes", minutes, "error", err)
		return dto.FlushOutput{Sent: true, Minutes: minutes}, fmt.Errorf("send saveTimeTyping: %w", err)
	}
	if !resp.Success {
		s.countDropped()
		s.logger.Error("save time typing rejected", "message", resp.Message)
		return dto.FlushOutput{Sent: true, Minutes: minutes, Message: resp.Message}, nil
	}

	s.mu.Lock()
	s.total += minutes
	s.reports++
	s.mu.Unlock()
	s.logger.Debug(resp.Message)
	return dto.FlushOutput{Sent: true, Minutes: minutes, Success: true, Message: resp.Message}, nil
}

// ObserveTheme sends updateTheme when the main or background color moved
// since the last send.
func (s *TypingService) ObserveTheme(ctx context.Context, theme themedto.Theme) (dto.ThemeOutput, error) {
	s.mu.Lock()
	if !s.watch.Changed(theme) {
		s.mu.Unlock()
		return dto.ThemeOutput{}, nil
	}
	s.watch.Remember(theme)
	s.mu.Unlock()

	s.logger.Debug("sending updateTheme", "tab", s.tabID, "main", theme.MainColor)
	resp, err := s.sender.Send(ctx, backgrounddto.UpdateTheme(s.tabID, theme))
	if err != nil {
		// Not delivered, so the next poll tries again.
		s.mu.Lock()
		s.watch.Forget()
		s.mu.Unlock()
		return dto.ThemeOutput{Sent: true}, fmt.Errorf("send updateTheme: %w", err)
	}
	if !resp.Success {
		s.logger.Error("update theme rejected", "message", resp.Message)
	}
	return dto.ThemeOutput{Sent: true, Success: resp.Success, Message: resp.Message}, nil
}

func (s *TypingService) Stats() dto.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.Stats{
		Pending:        s.acc.Accumulated(),
		ReportedTotal:  s.total,
		Reports:        s.reports,
		DroppedReports: s.dropped,
	}
}

func (s *TypingService) countDropped() {
	s.mu.Lock()
	s.dropped++
	s.mu.Unlock()
}
