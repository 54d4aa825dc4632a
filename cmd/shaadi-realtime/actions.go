// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaadisharthi/realtime/lib/clock"
	"github.com/shaadisharthi/realtime/lib/codec"
	"github.com/shaadisharthi/realtime/lib/inquiry"
	"github.com/shaadisharthi/realtime/lib/push"
	"github.com/shaadisharthi/realtime/lib/service"
	"github.com/shaadisharthi/realtime/lib/sessiontoken"
	"github.com/shaadisharthi/realtime/lib/version"
)

// realtimeService wires the control socket actions to the coordinator
// and the push layer.
type realtimeService struct {
	coordinator *inquiry.Coordinator
	registry    *push.Registry
	dispatcher  *push.Dispatcher
	clock       clock.Clock
	logger      *slog.Logger
	startedAt   time.Time
}

// registerActions attaches all control protocol actions to the socket
// server. The status action is unauthenticated so health checks need
// no token. Inquiry creation is called by the trusted web backend on
// behalf of guests, who have no session yet; everything that mutates
// or reads assignment state requires an operator token.
func (s *realtimeService) registerActions(server *service.SocketServer, publicKey ed25519.PublicKey) {
	operator := service.AuthConfig{
		PublicKey: publicKey,
		Roles:     []sessiontoken.Role{sessiontoken.RoleOperator},
		Clock:     s.clock,
	}

	server.Handle("status", s.handleStatus)
	server.Handle("inquiry/create", s.handleInquiryCreate)
	server.HandleAuth("inquiry/get", operator, s.handleInquiryGet)
	server.HandleAuth("inquiry/claim", operator, s.handleInquiryClaim)
	server.HandleAuth("inquiry/finalize", operator, s.handleInquiryFinalize)
	server.HandleAuth("inquiry/pending", operator, s.handleInquiryPending)
	server.HandleAuth("notify", operator, s.handleNotify)
}

func (s *realtimeService) handleStatus(ctx context.Context, _ []byte) (any, error) {
	pending, err := s.coordinator.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"version":        version.Short(),
		"uptime_seconds": int64(s.clock.Now().Sub(s.startedAt).Seconds()),
		"sessions":       s.registry.Len(),
		"pending":        pending,
	}, nil
}

func (s *realtimeService) handleInquiryCreate(ctx context.Context, raw []byte) (any, error) {
	var request struct {
		Kind      string `cbor:"kind"`
		SubjectID string `cbor:"subject_id"`
		Name      string `cbor:"name"`
		Email     string `cbor:"email"`
		Message   string `cbor:"message"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	item, err := s.coordinator.Create(ctx, inquiry.Kind(request.Kind),
		request.SubjectID, request.Name, request.Email, request.Message)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *realtimeService) handleInquiryGet(ctx context.Context, _ *sessiontoken.Token, raw []byte) (any, error) {
	var request struct {
		ID string `cbor:"id"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	return s.coordinator.Get(ctx, request.ID)
}

// handleInquiryClaim assigns the inquiry to the calling operator. The
// operator identity comes from the verified token, never from request
// fields, so an operator cannot claim on behalf of another.
func (s *realtimeService) handleInquiryClaim(ctx context.Context, token *sessiontoken.Token, raw []byte) (any, error) {
	var request struct {
		ID string `cbor:"id"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	return s.coordinator.Claim(ctx, request.ID, token.Subject)
}

func (s *realtimeService) handleInquiryFinalize(ctx context.Context, token *sessiontoken.Token, raw []byte) (any, error) {
	var request struct {
		ID    string `cbor:"id"`
		Reply string `cbor:"reply"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	return s.coordinator.Finalize(ctx, request.ID, token.Subject, request.Reply)
}

func (s *realtimeService) handleInquiryPending(ctx context.Context, _ *sessiontoken.Token, raw []byte) (any, error) {
	var request struct {
		Page     int `cbor:"page"`
		PageSize int `cbor:"page_size"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	items, err := s.coordinator.ListPending(ctx, request.Page, request.PageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.coordinator.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"items": items,
		"total": total,
	}, nil
}

// handleNotify lets the web backend push an ad-hoc event to a subject,
// e.g. a booking confirmation produced outside the inquiry flow.
func (s *realtimeService) handleNotify(ctx context.Context, _ *sessiontoken.Token, raw []byte) (any, error) {
	var request struct {
		SubjectID string `cbor:"subject_id"`
		Type      string `cbor:"type"`
		Ref       string `cbor:"ref"`
		Body      string `cbor:"body"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %v", err)
	}
	if request.SubjectID == "" {
		return nil, fmt.Errorf("missing required field: subject_id")
	}
	if request.Type == "" {
		return nil, fmt.Errorf("missing required field: type")
	}
	s.dispatcher.Notify(request.SubjectID, push.Event{
		Type:      request.Type,
		Ref:       request.Ref,
		Body:      request.Body,
		Timestamp: s.clock.Now(),
	})
	return nil, nil
}
