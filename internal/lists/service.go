package lists

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookdroplist/internal/books"
	"bookdroplist/internal/enrich"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/minilibrary"
	"bookdroplist/internal/ratelimit"
	"bookdroplist/internal/services"
)

// Extractor reads book mentions out of an image.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]books.RawMention, error)
}

// Store is the persistence surface the service needs. *store.Store
// satisfies it.
type Store interface {
	InsertOrGetBook(ctx context.Context, book books.Book) (books.Book, error)
	GetBookByTitleAuthor(ctx context.Context, title, author string) (books.Book, error)
	CreateList(ctx context.Context, list books.List) (books.List, error)
	GetList(ctx context.Context, id string) (books.List, error)
	GetListByShareURL(ctx context.Context, slug string) (books.List, error)
	ListsByOwner(ctx context.Context, ownerID string) ([]books.List, error)
	UpdateListMeta(ctx context.Context, list books.List) error
	DeleteList(ctx context.Context, id string) error
	ListBooks(ctx context.Context, listID string) ([]books.Book, error)
	ReplaceListBooks(ctx context.Context, listID string, bookIDs []string) error
	AppendBooks(ctx context.Context, listID string, bookIDs []string) (int, error)
	RemoveBook(ctx context.Context, listID, bookID string) error
}

// Geocoder resolves addresses and coordinates to locations.
type Geocoder interface {
	Forward(ctx context.Context, address string) (books.Location, error)
	Reverse(ctx context.Context, lat, lng float64) (books.Location, error)
}

// Service wires the pipeline stages behind the list API.
type Service struct {
	store    Store
	vision   Extractor
	enricher *enrich.Enricher
	searcher enrich.Searcher
	detector *minilibrary.Detector
	geocoder Geocoder
	limiter  *ratelimit.Limiter
	baseURL  string
	logger   *slog.Logger
}

// Options collects the service dependencies. Store, Enricher, and
// Searcher are required; the rest degrade gracefully when nil.
type Options struct {
	Store    Store
	Vision   Extractor
	Enricher *enrich.Enricher
	Searcher enrich.Searcher
	Detector *minilibrary.Detector
	Geocoder Geocoder
	Limiter  *ratelimit.Limiter
	BaseURL  string
	Logger   *slog.Logger
}

// New builds the list service.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("lists: store required")
	}
	if opts.Enricher == nil {
		return nil, errors.New("lists: enricher required")
	}
	if opts.Searcher == nil {
		return nil, errors.New("lists: searcher required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	detector := opts.Detector
	if detector == nil {
		detector = minilibrary.New(minilibrary.DefaultThresholds())
	}
	return &Service{
		store:    opts.Store,
		vision:   opts.Vision,
		enricher: opts.Enricher,
		searcher: opts.Searcher,
		detector: detector,
		geocoder: opts.Geocoder,
		limiter:  opts.Limiter,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		logger:   logging.WithComponent(logger, "lists"),
	}, nil
}

// View is a list plus its books and the viewer's permissions, with the
// location already redacted for the viewer.
type View struct {
	List      books.List   `json:"list"`
	Books     []books.Book `json:"books"`
	CanEdit   bool         `json:"can_edit"`
	CanManage bool         `json:"can_manage"`
}

// CreateFromImage runs the full pipeline: extract spines, enrich them
// against the catalogs, persist the books, and create the list with its
// members in shelf order.
func (s *Service) CreateFromImage(ctx context.Context, userID, name string, purpose books.ListPurpose, image []byte, mimeType string) (*View, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	if s.vision == nil {
		return nil, services.Wrap(services.ErrConfiguration, "lists", "create from image", "vision extraction not configured", nil)
	}
	mentions, err := s.vision.Extract(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	if len(mentions) == 0 {
		return nil, services.Wrap(services.ErrExtractionParse, "lists", "create from image", "no identifiable books in image", nil)
	}

	enriched := s.enricher.EnrichAll(ctx, mentions)
	s.logger.Info("shelf extracted",
		logging.Int("mentions", len(mentions)),
		logging.Int("books", len(enriched)),
		logging.String(logging.FieldUserID, userID))
	return s.createWithBooks(ctx, userID, name, purpose, enriched)
}

// CreateManual creates a list from caller-supplied books.
func (s *Service) CreateManual(ctx context.Context, userID, name string, purpose books.ListPurpose, entries []books.Book) (*View, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	return s.createWithBooks(ctx, userID, name, purpose, entries)
}

func (s *Service) createWithBooks(ctx context.Context, userID, name string, purpose books.ListPurpose, entries []books.Book) (*View, error) {
	if purpose == "" {
		purpose = books.PurposeSharing
	}
	if !purpose.Known() {
		return nil, services.Wrap(services.ErrValidation, "lists", "create", "unknown purpose "+string(purpose), nil)
	}
	// Locations are attached after creation, so purposes that need one
	// cannot be chosen up front.
	if purpose.LocationRequired() {
		return nil, services.Wrap(services.ErrValidation, "lists", "create",
			string(purpose)+" lists start as sharing and gain the purpose once a location is set", nil)
	}

	bookIDs, skipped := s.persistBooks(ctx, entries)

	list, err := s.createListWithSlug(ctx, books.List{
		Name:    name,
		Purpose: purpose,
		OwnerID: userID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceListBooks(ctx, list.ID, bookIDs); err != nil {
		return nil, err
	}

	s.logger.Info("list created",
		logging.String(logging.FieldListID, list.ID),
		logging.String("purpose", string(purpose)),
		logging.Int("books", len(bookIDs)),
		logging.Int("skipped", skipped))
	return s.view(ctx, list.ID, userID)
}

// persistBooks reconciles a batch of books to rows. One bad entry must
// not sink the rest of the shelf, so failures are logged and skipped.
func (s *Service) persistBooks(ctx context.Context, entries []books.Book) (ids []string, skipped int) {
	ids = make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			skipped++
			continue
		}
		persisted, err := s.store.InsertOrGetBook(ctx, entry)
		if err != nil {
			s.logger.Warn("book skipped",
				logging.String("title", entry.Title),
				logging.Error(err))
			skipped++
			continue
		}
		ids = append(ids, persisted.ID)
	}
	return ids, skipped
}

// slugAttempts bounds retries on share-slug collisions.
const slugAttempts = 5

func (s *Service) createListWithSlug(ctx context.Context, list books.List) (books.List, error) {
	var lastErr error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		list.ShareURL = newSlug()
		created, err := s.store.CreateList(ctx, list)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, services.ErrConflict) {
			return books.List{}, err
		}
		lastErr = err
	}
	return books.List{}, fmt.Errorf("allocate share slug: %w", lastErr)
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newSlug returns a 10-character URL-safe share token.
func newSlug() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		// Share tokens must never come from a weak source.
		panic(fmt.Sprintf("read random: %v", err))
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf)
}

// Get resolves a list by share slug or id and applies the viewer's
// location redaction.
func (s *Service) Get(ctx context.Context, slugOrID, userID string) (*View, error) {
	list, err := s.store.GetListByShareURL(ctx, slugOrID)
	if errors.Is(err, services.ErrNotFound) {
		list, err = s.store.GetList(ctx, slugOrID)
	}
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, list, userID)
}

// MyLists returns the caller's lists.
func (s *Service) MyLists(ctx context.Context, userID string) ([]books.List, error) {
	if userID == "" {
		return nil, services.Wrap(services.ErrUnauthorized, "lists", "my lists", "authentication required", nil)
	}
	owned, err := s.store.ListsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range owned {
		owned[i].ShareURL = s.shareLink(owned[i].ShareURL)
	}
	return owned, nil
}

// Search exposes the ranked catalog search for interactive book adding.
func (s *Service) Search(ctx context.Context, query string) ([]books.Book, error) {
	return s.searcher.Search(ctx, query)
}

func (s *Service) allow(userID string) error {
	if s.limiter == nil {
		return nil
	}
	actor := userID
	if actor == "" {
		actor = "anonymous"
	}
	if !s.limiter.Allow(actor) {
		return services.Wrap(services.ErrRateLimited, "lists", "create", "a list was just created, wait a moment", nil)
	}
	return nil
}

func (s *Service) view(ctx context.Context, listID, userID string) (*View, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, list, userID)
}

func (s *Service) viewOf(ctx context.Context, list books.List, userID string) (*View, error) {
	members, err := s.store.ListBooks(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	redacted := list
	redacted.ShareURL = s.shareLink(list.ShareURL)
	if !list.Purpose.ShowsExactLocation() && list.OwnerID != userID {
		redacted.Location.ExactLatitude = 0
		redacted.Location.ExactLongitude = 0
	}
	return &View{
		List:      redacted,
		Books:     members,
		CanEdit:   list.CanEdit(userID),
		CanManage: list.CanManage(userID),
	}, nil
}

func (s *Service) shareLink(slug string) string {
	if s.baseURL == "" {
		return slug
	}
	return s.baseURL + "/list/" + slug
}

// editable loads a list and enforces the edit permission.
func (s *Service) editable(ctx context.Context, listID, userID string) (books.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return books.List{}, err
	}
	if !list.CanEdit(userID) {
		return books.List{}, services.Wrap(services.ErrUnauthorized, "lists", "edit", "not allowed to edit this list", nil)
	}
	return list, nil
}

// managed loads a list and enforces the manage permission.
func (s *Service) managed(ctx context.Context, listID, userID string) (books.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return books.List{}, err
	}
	if !list.CanManage(userID) {
		return books.List{}, services.Wrap(services.ErrUnauthorized, "lists", "manage", "only the owner may do this", nil)
	}
	return list, nil
}
