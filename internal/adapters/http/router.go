package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/application"
	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

type contextKey string

const requestIDKey contextKey = "request_id"

type Options struct {
	Log            zerolog.Logger
	ImagesDir      string
	MaxUploadBytes int64
}

type Handler struct {
	service   *application.Service
	log       zerolog.Logger
	maxUpload int64
}

func NewRouter(service *application.Service, opts Options) http.Handler {
	h := &Handler{
		service:   service,
		log:       opts.Log.With().Str("component", "http").Logger(),
		maxUpload: opts.MaxUploadBytes,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/campaigns", h.handleListCampaigns)
		api.Post("/campaigns", h.handleCreateCampaign)
		api.Get("/campaigns/{id}", h.handleGetCampaign)
		api.Put("/campaigns/{id}", h.handleUpdateCampaign)
		api.Delete("/campaigns/{id}", h.handleDeleteCampaign)
		api.Get("/campaigns/{id}/characters", h.handleCampaignRoster)
		api.Get("/campaigns/{id}/adventures", h.handleCampaignAdventures)
		api.Get("/campaigns/{id}/sessions", h.handleCampaignSessions)
		api.Get("/campaigns/{id}/locations", h.handleCampaignLocations)
		api.Get("/campaigns/{id}/quests", h.handleCampaignQuests)
		api.Get("/campaigns/{id}/relationships", h.handleRelationshipOverview)

		api.Get("/adventures", h.handleListAdventures)
		api.Post("/adventures", h.handleCreateAdventure)
		api.Get("/adventures/{id}", h.handleGetAdventure)
		api.Put("/adventures/{id}", h.handleUpdateAdventure)
		api.Delete("/adventures/{id}", h.handleDeleteAdventure)

		api.Get("/sessions", h.handleListSessions)
		api.Post("/sessions", h.handleCreateSession)
		api.Get("/sessions/{id}", h.handleGetSession)
		api.Put("/sessions/{id}", h.handleUpdateSession)
		api.Delete("/sessions/{id}", h.handleDeleteSession)
		api.Get("/sessions/{id}/logs", h.handleListSessionLogs)
		api.Post("/sessions/{id}/logs", h.handleAddSessionLog)
		api.Put("/sessions/{id}/logs/{logId}", h.handleUpdateSessionLog)
		api.Delete("/sessions/{id}/logs/{logId}", h.handleDeleteSessionLog)

		api.Get("/characters", h.handleListCharacters)
		api.Post("/characters", h.handleCreateCharacter)
		api.Get("/characters/{id}", h.handleGetCharacter)
		api.Put("/characters/{id}", h.handleUpdateCharacter)
		api.Delete("/characters/{id}", h.handleDeleteCharacter)

		api.Get("/locations", h.handleListLocations)
		api.Post("/locations", h.handleCreateLocation)
		api.Get("/locations/{id}", h.handleGetLocation)
		api.Put("/locations/{id}", h.handleUpdateLocation)
		api.Delete("/locations/{id}", h.handleDeleteLocation)

		api.Get("/quests", h.handleListQuests)
		api.Post("/quests", h.handleCreateQuest)
		api.Get("/quests/{id}", h.handleGetQuest)
		api.Put("/quests/{id}", h.handleUpdateQuest)
		api.Delete("/quests/{id}", h.handleDeleteQuest)

		for _, owner := range []struct {
			path string
			kind domain.EntityType
		}{
			{"characters", domain.EntityCharacter},
			{"locations", domain.EntityLocation},
			{"quests", domain.EntityQuest},
		} {
			api.Get("/"+owner.path+"/{id}/diary", h.handleListDiary(owner.kind))
			api.Post("/"+owner.path+"/{id}/diary", h.handleAddDiaryEntry(owner.kind))
			api.Put("/"+owner.path+"/{id}/diary/{entryId}", h.handleUpdateDiaryEntry(owner.kind))
			api.Delete("/"+owner.path+"/{id}/diary/{entryId}", h.handleDeleteDiaryEntry(owner.kind))
		}

		api.Get("/magic-items", h.handleListMagicItems)
		api.Post("/magic-items", h.handleCreateMagicItem)
		api.Get("/magic-items/{id}", h.handleGetMagicItem)
		api.Put("/magic-items/{id}", h.handleUpdateMagicItem)
		api.Delete("/magic-items/{id}", h.handleDeleteMagicItem)
		api.Get("/magic-items/{id}/assignments", h.handleListAssignments)
		api.Post("/magic-items/{id}/assignments", h.handleAssignMagicItem)
		api.Delete("/magic-items/{id}/assignments/{assignmentId}", h.handleUnassignMagicItem)

		api.Get("/wiki-articles", h.handleListWikiArticles)
		api.Post("/wiki-articles", h.handleImportWikiArticle)
		api.Get("/wiki-articles/{id}", h.handleGetWikiArticle)
		api.Put("/wiki-articles/{id}", h.handleUpdateWikiArticle)
		api.Delete("/wiki-articles/{id}", h.handleDeleteWikiArticle)
		api.Post("/wiki-articles/{id}/entities", h.handleLinkWikiArticle)
		api.Delete("/wiki-articles/{id}/entities/{linkId}", h.handleUnlinkWikiArticle)
		api.Get("/wiki-monsters", h.handleListMonsters)
		api.Post("/wiki-monsters", h.handleImportTyped(domain.ContentMonster))
		api.Get("/wiki-spells", h.handleListSpells)
		api.Post("/wiki-spells", h.handleImportTyped(domain.ContentSpell))

		api.Get("/relations", h.handleListRelations)
		api.Post("/relations", h.handleCreateRelation)
		api.Get("/relations/{id}", h.handleGetRelation)
		api.Put("/relations/{id}", h.handleUpdateRelation)
		api.Delete("/relations/{id}", h.handleDeleteRelation)
		api.Get("/relations/{id}/events", h.handleListRelationEvents)
		api.Post("/relations/{id}/events", h.handleAddRelationEvent)
		api.Delete("/relations/{id}/events/{eventId}", h.handleDeleteRelationEvent)

		api.Post("/images/upload", h.handleUploadImages)
		api.Post("/images/attach", h.handleAttachImage)
		api.Delete("/images", h.handleDetachImage)
	})

	if opts.ImagesDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(opts.ImagesDir))))
	}
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("request")
	})
}
