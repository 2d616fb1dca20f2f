package config

import (
	"time"

	"github.com/staffpanel/staffpanel/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Storage    string // memory, postgres or mysql
	StorageURI string // connection uri for postgres/mysql storage
	Table      string // table name for postgres/mysql storage
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Log       logger.Log
	Title     string
	Webserver Webserver
	Discord   Discord
	Auth      Auth
	Roster    Roster
	Roles     Roles
	Audit     Audit
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

// Discord holds the bot and OAuth application credentials.
type Discord struct {
	ClientID     string
	ClientSecret string
	BotToken     string
	GuildID      string
	RedirectURL  string

	// MutationRate is the number of role mutations per second sent to Discord.
	MutationRate  float64
	MutationBurst int
}

// Auth settings for the dashboard login.
type Auth struct {
	// EnforceStaffRoles rejects mutating API calls of users holding neither staff role.
	EnforceStaffRoles bool
	StateExpiry       time.Duration
}

// Roster cache settings.
type Roster struct {
	FreshFor     time.Duration // freshness window of a snapshot
	FetchTimeout time.Duration // upper bound of one upstream refresh
	WarmupDelay  time.Duration // delay of the forced refresh after startup, 0 disables it
}

// Marker describes a single binary role state.
type Marker struct {
	Role    string
	Reapply bool // add the role on every action instead of skipping holders
}

// Roles holds the static role mapping tables.
type Roles struct {
	Eligible    []string            // members holding one of these are listed in the roster
	HighCommand string              // role id granting the high command flag
	MIA         string              // role id granting the internal affairs flag
	Ladders     map[string][]string // category -> role ids, lowest tier first
	Markers     map[string]Marker   // category -> marker role
}

// Audit settings for the action log channels.
type Audit struct {
	Channels map[string]string // destination key -> channel id
	Footer   string
	TimeZone string
}
