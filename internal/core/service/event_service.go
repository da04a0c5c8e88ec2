package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type eventService struct {
	events  ports.EventRepository
	uploads *Uploader
	log     zerolog.Logger
	now     func() time.Time
}

// NewEventService returns an EventService implementation.
func NewEventService(events ports.EventRepository, uploads *Uploader, log zerolog.Logger) ports.EventService {
	return &eventService{events: events, uploads: uploads, log: log, now: time.Now}
}

// Create announces an event. The image is removed again if the event cannot
// be saved.
func (s *eventService) Create(ctx context.Context, p *domain.Principal, in ports.EventInput, image ports.File) (*domain.Event, error) {
	stored, err := s.uploads.upload(ctx, p.ID(), image, FolderEvents, imageFile)
	if err != nil {
		return nil, err
	}

	e := &domain.Event{
		Image:            &stored,
		EventName:        strings.TrimSpace(in.EventName),
		EventURL:         in.EventURL,
		OrganizerName:    in.OrganizerName,
		OrganizationType: in.OrganizationType,
		Department:       in.Department,
		Date:             in.Date,
		Time:             in.Time,
		Company:          in.Company,
		SkillCovered:     in.SkillCovered,
		PostedBy:         domain.PosterOf(p),
		CreatedAt:        s.now().UTC(),
	}
	created, err := s.events.Create(ctx, e)
	if err != nil {
		s.uploads.discard(ctx, &stored)
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info().Str("event", created.ID).Str("by", p.ID()).Msg("event created")
	return created, nil
}

func (s *eventService) List(ctx context.Context, params query.Params) (query.Result[*domain.Event], error) {
	q := query.New().
		Search(params, "eventName").
		Filter(params, query.CaseInsensitive("department", "organizationType")).
		Sort(params, query.Desc("createdAt"))
	return list[*domain.Event](ctx, s.events, q, params)
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Event not found")
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanManage(e.PostedBy) {
		return domain.NewError(domain.ErrForbidden, "You are not authorized to delete this event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return notFound(err, "Event not found")
	}
	s.uploads.discard(ctx, e.Image)
	s.log.Info().Str("event", id).Str("by", p.ID()).Msg("event deleted")
	return nil
}

func (s *eventService) ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Event], error) {
	q := query.New(query.Eq("postedBy._id", p.ID())).
		Search(params, "eventName").
		Filter(params).
		Sort(params, query.Desc("createdAt"))
	return list[*domain.Event](ctx, s.events, q, params)
}
