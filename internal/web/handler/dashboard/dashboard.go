// Package dashboard renders the staff dashboard page with a server side roster table.
package dashboard

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/ladder"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/handler/members"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "index"

	// DefaultPageSize is the default number of members per page.
	DefaultPageSize = 24

	maxPageSize = 100

	desc = "desc"
)

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page        int
	PageSize    int
	SearchQuery string
	FilterRank  string
	SortField   string
	SortOrder   string
}

// PageData represents the visible roster page.
type PageData struct {
	Members     []members.View
	Ranks       []string
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	SearchQuery string
	FilterRank  string
	SortField   string
	SortOrder   string
	Stale       bool
}

// CategoryOption is an entry of the action form.
type CategoryOption struct {
	Value string
	Label string
}

// Service is the dashboard handler service.
type Service struct {
	cfg    *config.Config
	roster handler.Roster
}

var _ handler.Service = (*Service)(nil)

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Roster == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.roster = deps.Roster

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering. The roster failing does not
// fail the page, the table is then rendered empty with an error notice.
func (s *Service) Get(c *fiber.Ctx) error {
	params := QueryParams{
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery: c.Query("search", ""),
		FilterRank:  c.Query("rank", ""),
		SortField:   c.Query("sort", "name"),
		SortOrder:   c.Query("order", "asc"),
	}

	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = DefaultPageSize
	}

	user, loggedIn := auth.CurrentUser(c)

	var (
		views    []members.View
		stale    bool
		rosterOK = true
	)

	snap, err := s.roster.Get(c.UserContext(), false)
	if err != nil {
		log.Error().Err(err).Msg("failed to load roster for dashboard")

		rosterOK = false
	} else {
		views = members.Views(snap)
		stale = snap.Stale
	}

	ranks := collectRanks(views)
	views = filterMembers(views, params.SearchQuery, params.FilterRank)
	sortMembers(views, params.SortField, params.SortOrder)

	paginated, totalPages, actualPage := paginateMembers(views, params.Page, params.PageSize)
	params.Page = actualPage

	page := buildPageData(paginated, totalPages, &params)
	page.TotalItems = len(views)
	page.Ranks = ranks
	page.Stale = stale

	log.Debug().
		Int("members", len(views)).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.SearchQuery).
		Str("filter_rank", params.FilterRank).
		Str("sort_field", params.SortField).
		Str("sort_order", params.SortOrder).
		Msg("Dashboard roster rendered")

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"User":       user,
		"LoggedIn":   loggedIn,
		"CanAct":     loggedIn && (!s.cfg.Auth.EnforceStaffRoles || user.IsStaff()),
		"Page":       page,
		"RosterOK":   rosterOK,
		"Categories": categoryOptions(),
		"LoginError": c.Query("error"),
	}, handler.BaseLayout)
}

func categoryOptions() []CategoryOption {
	all := ladder.Categories()
	out := make([]CategoryOption, 0, len(all))

	for _, cat := range all {
		out = append(out, CategoryOption{Value: string(cat), Label: audit.DisplayName(cat)})
	}

	return out
}

// collectRanks returns the distinct rank labels, sorted.
func collectRanks(views []members.View) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, v := range views {
		if v.Rank == "" {
			continue
		}

		if _, ok := seen[v.Rank]; ok {
			continue
		}

		seen[v.Rank] = struct{}{}
		out = append(out, v.Rank)
	}

	sort.Strings(out)

	return out
}

// filterMembers applies search and rank filters.
func filterMembers(views []members.View, searchQuery, filterRank string) []members.View {
	if searchQuery != "" {
		filtered := make([]members.View, 0)
		q := strings.ToLower(searchQuery)

		for _, v := range views {
			if strings.Contains(strings.ToLower(v.Username), q) {
				filtered = append(filtered, v)
			}
		}

		views = filtered
	}

	if filterRank != "" {
		filtered := make([]members.View, 0)

		for _, v := range views {
			if v.Rank == filterRank {
				filtered = append(filtered, v)
			}
		}

		views = filtered
	}

	return views
}

// sortMembers sorts by the specified field and order. Unknown fields keep the roster order.
func sortMembers(views []members.View, sortField, sortOrder string) {
	var key func(members.View) string

	switch sortField {
	case "name":
		key = func(v members.View) string { return strings.ToLower(v.Username) }
	case "rank":
		key = func(v members.View) string { return strings.ToLower(v.Rank) }
	case "status":
		key = func(v members.View) string { return v.Status }
	default:
		return
	}

	sort.SliceStable(views, func(i, j int) bool {
		if sortOrder == desc {
			return key(views[i]) > key(views[j])
		}

		return key(views[i]) < key(views[j])
	})
}

// paginateMembers calculates pagination and returns the visible members.
func paginateMembers(views []members.View, page, pageSize int) (paginated []members.View, totalPages, actualPage int) {
	totalItems := len(views)

	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	var (
		startIdx = (page - 1) * pageSize
		endIdx   = startIdx + pageSize
	)

	if endIdx > totalItems {
		endIdx = totalItems
	}

	if startIdx < totalItems {
		paginated = views[startIdx:endIdx]
	} else {
		paginated = []members.View{}
	}

	return paginated, totalPages, page
}

// buildPageData creates PageData with pagination information.
func buildPageData(views []members.View, totalPages int, params *QueryParams) PageData {
	return PageData{
		Members:     views,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalItems:  len(views),
		TotalPages:  totalPages,
		HasPrevPage: params.Page > 1,
		HasNextPage: params.Page < totalPages,
		PrevPage:    params.Page - 1,
		NextPage:    params.Page + 1,
		SearchQuery: params.SearchQuery,
		FilterRank:  params.FilterRank,
		SortField:   params.SortField,
		SortOrder:   params.SortOrder,
	}
}
