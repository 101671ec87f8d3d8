package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/rs/zerolog"
)

const (
	codeInvalid  = 40000
	codeNotFound = 40400
	codeConflict = 40900
	codeInternal = 50000
)

type Server struct {
	service  *application.Service
	log      zerolog.Logger
	listener net.Listener
	path     string
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    []domain.FieldIssue `json:"data,omitempty"`
}

// Start listens on a unix socket readable only by the owner.
func Start(path string, service *application.Service, log zerolog.Logger) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{
		service:  service,
		log:      log.With().Str("component", "rpc").Logger(),
		listener: ln,
		path:     path,
	}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(context.Background(), req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "campaigns.list":
		var p struct {
			Q      string `json:"q"`
			Filter string `json:"filter"`
			Limit  int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.ListCampaigns(ctx, domain.ListQuery{Query: p.Q, Filter: p.Filter, Limit: p.Limit})
		return s.reply(req.ID, out, err)
	case "campaigns.create":
		var p domain.Campaign
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.CreateCampaign(ctx, p)
		return s.reply(req.ID, out, err)
	case "characters.list":
		var p struct {
			CampaignID    *uint  `json:"campaignId"`
			CharacterType string `json:"characterType"`
			Q             string `json:"q"`
			Filter        string `json:"filter"`
			Limit         int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.ListCharacters(ctx, domain.CharacterQuery{
			ListQuery:     domain.ListQuery{CampaignID: p.CampaignID, Query: p.Q, Filter: p.Filter, Limit: p.Limit},
			CharacterType: p.CharacterType,
		})
		return s.reply(req.ID, out, err)
	case "wiki.import":
		var p application.WikiImport
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		article, created, err := s.service.ImportWikiArticle(ctx, p)
		return s.reply(req.ID, map[string]any{"article": article, "created": created}, err)
	case "wiki.list":
		var p struct {
			ContentType string `json:"contentType"`
			Q           string `json:"q"`
			Filter      string `json:"filter"`
			Limit       int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		query := domain.WikiQuery{ListQuery: domain.ListQuery{Query: p.Q, Filter: p.Filter, Limit: p.Limit}}
		if strings.TrimSpace(p.ContentType) != "" {
			contentType, err := domain.ParseContentType(p.ContentType)
			if err != nil {
				return s.reply(req.ID, nil, domain.Invalid("contentType", "%v", err))
			}
			query.ContentType = contentType
		}
		out, err := s.service.ListWikiArticles(ctx, query)
		return s.reply(req.ID, out, err)
	case "items.list":
		var p struct {
			Q      string `json:"q"`
			Filter string `json:"filter"`
			Limit  int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.ListMagicItems(ctx, domain.ListQuery{Query: p.Q, Filter: p.Filter, Limit: p.Limit})
		return s.reply(req.ID, out, err)
	case "items.assign":
		var p struct {
			ItemID uint `json:"itemId"`
			application.AssignInput
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.AssignMagicItem(ctx, p.ItemID, p.AssignInput)
		return s.reply(req.ID, out, err)
	case "items.unassign":
		var p struct {
			ItemID       uint `json:"itemId"`
			AssignmentID uint `json:"assignmentId"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		err := s.service.UnassignMagicItem(ctx, p.ItemID, p.AssignmentID)
		return s.reply(req.ID, map[string]any{"removed": p.AssignmentID}, err)
	case "relations.list":
		var p struct {
			CampaignID *uint  `json:"campaignId"`
			EntityType string `json:"entityType"`
			EntityID   uint   `json:"entityId"`
			Limit      int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		query := domain.RelationQuery{CampaignID: p.CampaignID, Limit: p.Limit}
		if strings.TrimSpace(p.EntityType) != "" {
			entityType, err := domain.ParseEntityType(p.EntityType)
			if err != nil {
				return s.reply(req.ID, nil, domain.Invalid("entityType", "%v", err))
			}
			query.Entity = &domain.EntityRef{Type: entityType, ID: p.EntityID}
		}
		out, err := s.service.ListRelations(ctx, query)
		return s.reply(req.ID, out, err)
	case "relations.create":
		var p application.RelationInput
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		out, err := s.service.CreateRelation(ctx, p)
		return s.reply(req.ID, out, err)
	case "diary.list", "diary.add":
		var p struct {
			OwnerType string `json:"ownerType"`
			OwnerID   uint   `json:"ownerId"`
			domain.DiaryEntry
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		ownerType, err := domain.ParseEntityType(p.OwnerType)
		if err != nil {
			return s.reply(req.ID, nil, domain.Invalid("ownerType", "%v", err))
		}
		owner := domain.EntityRef{Type: ownerType, ID: p.OwnerID}
		if req.Method == "diary.list" {
			out, err := s.service.ListDiary(ctx, owner)
			return s.reply(req.ID, out, err)
		}
		out, err := s.service.AddDiaryEntry(ctx, owner, p.DiaryEntry)
		return s.reply(req.ID, out, err)
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
	}
}

func (s *Server) reply(id any, result any, err error) response {
	if err != nil {
		return s.appError(id, err)
	}
	return response{JSONRPC: "2.0", Result: result, ID: id}
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return true
	}
	return json.Unmarshal(raw, out) == nil
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}

func (s *Server) appError(id any, err error) response {
	if v, ok := domain.AsValidation(err); ok {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalid, Message: "validation failed", Data: v.Issues}, ID: id}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeNotFound, Message: err.Error()}, ID: id}
	case errors.Is(err, domain.ErrConflict):
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeConflict, Message: err.Error()}, ID: id}
	}
	s.log.Error().Err(err).Msg("rpc call failed")
	return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInternal, Message: "internal error"}, ID: id}
}
