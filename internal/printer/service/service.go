package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"bloodconnect/internal/printer/metrics"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/requestcontext"
)

// Transport delivers raw jobs to a printer.
type Transport interface {
	Send(ctx context.Context, job []byte) error
	Ping(ctx context.Context) error
	Addr() string
}

// PrinterInfo describes the configured printer.
type PrinterInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	IsConnected bool   `json:"isConnected"`
}

type Service struct {
	transport Transport
	name      string
	location  *time.Location
	logger    *slog.Logger
	metrics   *metrics.Metrics
	health    singleflight.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocation sets the zone slip timestamps are printed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// New builds the printer service. A nil transport means no printer is
// configured: health reports unavailable and print calls fail.
func New(transport Transport, name string, opts ...Option) *Service {
	s := &Service{
		transport: transport,
		name:      name,
		location:  time.UTC,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Healthy dials the printer. Concurrent callers share one dial.
func (s *Service) Healthy(ctx context.Context) bool {
	if s.transport == nil {
		return false
	}
	v, _, _ := s.health.Do("ping", func() (any, error) {
		if err := s.transport.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "printer unreachable", "addr", s.transport.Addr(), "error", err)
			return false, nil
		}
		return true, nil
	})
	return v.(bool)
}

// List returns the configured printer, if any, with its reachability.
func (s *Service) List(ctx context.Context) []PrinterInfo {
	if s.transport == nil {
		return []PrinterInfo{}
	}
	return []PrinterInfo{{
		Name:        s.name,
		Address:     s.transport.Addr(),
		IsConnected: s.Healthy(ctx),
	}}
}

// PrintDonorSlips prints the three registration slips as a single job.
func (s *Service) PrintDonorSlips(ctx context.Context, d SlipData) error {
	d.FullName = strings.TrimSpace(d.FullName)
	d.NationalID = strings.TrimSpace(d.NationalID)
	d.CouponCode = strings.TrimSpace(d.CouponCode)
	if d.FullName == "" || d.NationalID == "" || d.CouponCode == "" {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: fullName, nationalId, couponCode")
	}
	job := RenderDonorSlips(d, requestcontext.Now(ctx).In(s.location))
	if err := s.send(ctx, "donor_slips", job); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "printed donor slips",
		"request_id", requestcontext.RequestID(ctx),
		"coupon_code", d.CouponCode,
	)
	return nil
}

func (s *Service) PrintTestPage(ctx context.Context) error {
	return s.send(ctx, "test_page", RenderTestPage(s.name, requestcontext.Now(ctx).In(s.location)))
}

func (s *Service) send(ctx context.Context, kind string, job []byte) error {
	if s.transport == nil {
		return dErrors.New(dErrors.CodeUnavailable, "no printer configured")
	}
	start := time.Now()
	err := s.transport.Send(ctx, job)
	s.metrics.ObserveJob(kind, time.Since(start).Seconds(), err)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "print failed")
	}
	return nil
}
