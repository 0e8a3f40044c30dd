// readygate
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"time"

	"github.com/caas-team/readygate/internal/helper"
)

// Mode selects which probes the readiness checker runs
type Mode string

const (
	// ModeStartup runs the required probes only
	ModeStartup Mode = "startup"
	// ModeSetup additionally runs the optional write and storage probes
	ModeSetup Mode = "setup"
)

const (
	DefaultApiAddress                     = ":8080"
	DefaultConnectivityURL                = "https://firestore.googleapis.com/"
	DefaultDatabaseID                     = "(default)"
	DefaultExpectedDatabase               = DefaultDatabaseID
	DefaultReadCollection                 = "listings"
	DefaultSetupCollection                = "_setup"
	DefaultTimeout          time.Duration = 0
)

// Config is the complete configuration of readygate
type Config struct {
	Firebase FirebaseConfig `json:"firebase" yaml:"firebase" mapstructure:"firebase"`
	Api      ApiConfig      `json:"api" yaml:"api" mapstructure:"api"`
	Checker  CheckerConfig  `json:"checker" yaml:"checker" mapstructure:"checker"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// FirebaseConfig holds the connection parameters of the Firebase project.
// The first six fields are the web SDK configuration and are all required.
type FirebaseConfig struct {
	ApiKey            string `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	AuthDomain        string `json:"authDomain" yaml:"authDomain" mapstructure:"authDomain"`
	ProjectID         string `json:"projectId" yaml:"projectId" mapstructure:"projectId"`
	StorageBucket     string `json:"storageBucket" yaml:"storageBucket" mapstructure:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId" yaml:"messagingSenderId" mapstructure:"messagingSenderId"`
	AppID             string `json:"appId" yaml:"appId" mapstructure:"appId"`

	// CredentialsFile is an optional service account file.
	// Application default credentials are used when empty.
	CredentialsFile string `json:"credentialsFile,omitempty" yaml:"credentialsFile,omitempty" mapstructure:"credentialsFile"`
	// DatabaseID is the Firestore database to connect to
	DatabaseID string `json:"databaseId" yaml:"databaseId" mapstructure:"databaseId"`
	// EmulatorHost is the host:port of a local Firestore emulator
	EmulatorHost string `json:"emulatorHost,omitempty" yaml:"emulatorHost,omitempty" mapstructure:"emulatorHost"`
}

// ApiConfig is the configuration for the shell API
type ApiConfig struct {
	ListeningAddress string `json:"address" yaml:"address" mapstructure:"address"`
	// StaticDir is served as page tree once the shell is ready
	StaticDir string `json:"staticDir,omitempty" yaml:"staticDir,omitempty" mapstructure:"staticDir"`
	// AllowedOrigins are the CORS origins of the API, all origins are allowed when empty
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" mapstructure:"allowedOrigins"`
}

// CheckerConfig is the configuration of the readiness checker
type CheckerConfig struct {
	Mode               Mode     `json:"mode" yaml:"mode" mapstructure:"mode"`
	ExpectedProjectIDs []string `json:"expectedProjectIds,omitempty" yaml:"expectedProjectIds,omitempty" mapstructure:"expectedProjectIds"`
	ExpectedDatabase   string   `json:"expectedDatabase" yaml:"expectedDatabase" mapstructure:"expectedDatabase"`
	ConnectivityURL    string   `json:"connectivityUrl" yaml:"connectivityUrl" mapstructure:"connectivityUrl"`
	// Timeout bounds a single probe, zero leaves it to the backend clients
	Timeout         time.Duration      `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Retry           helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
	ReadCollection  string             `json:"readCollection" yaml:"readCollection" mapstructure:"readCollection"`
	SetupCollection string             `json:"setupCollection" yaml:"setupCollection" mapstructure:"setupCollection"`
}

// LoggingConfig configures the log filter
type LoggingConfig struct {
	// Suppress lists substrings of log records that are dropped
	Suppress []string `json:"suppress,omitempty" yaml:"suppress,omitempty" mapstructure:"suppress"`
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		Firebase: FirebaseConfig{
			DatabaseID: DefaultDatabaseID,
		},
		Api: ApiConfig{
			ListeningAddress: DefaultApiAddress,
		},
		Checker: CheckerConfig{
			Mode:             ModeStartup,
			ExpectedDatabase: DefaultExpectedDatabase,
			ConnectivityURL:  DefaultConnectivityURL,
			Timeout:          DefaultTimeout,
			ReadCollection:   DefaultReadCollection,
			SetupCollection:  DefaultSetupCollection,
		},
	}
}

// IsSetup returns true if the optional setup probes should run
func (c *CheckerConfig) IsSetup() bool {
	return c.Mode == ModeSetup
}

// UsesEmulator returns true if the Firestore emulator is configured
func (f *FirebaseConfig) UsesEmulator() bool {
	return f.EmulatorHost != ""
}

// PublicConfig returns the web SDK configuration as served to the front-end
func (f *FirebaseConfig) PublicConfig() map[string]string {
	return map[string]string{
		"apiKey":            f.ApiKey,
		"authDomain":        f.AuthDomain,
		"projectId":         f.ProjectID,
		"storageBucket":     f.StorageBucket,
		"messagingSenderId": f.MessagingSenderID,
		"appId":             f.AppID,
	}
}
