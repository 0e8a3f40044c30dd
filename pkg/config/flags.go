package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/caas-team/readygate/internal/helper"
)

// Keys of the viper configuration.
// They double as the names of the cli flags.
const (
	KeyFirebaseApiKey            = "firebase.apiKey"
	KeyFirebaseAuthDomain        = "firebase.authDomain"
	KeyFirebaseProjectID         = "firebase.projectId"
	KeyFirebaseStorageBucket     = "firebase.storageBucket"
	KeyFirebaseMessagingSenderID = "firebase.messagingSenderId"
	KeyFirebaseAppID             = "firebase.appId"
	KeyFirebaseCredentialsFile   = "firebase.credentialsFile"
	KeyFirebaseDatabaseID        = "firebase.databaseId"
	KeyFirebaseEmulatorHost      = "firebase.emulatorHost"

	KeyApiAddress        = "api.address"
	KeyApiStaticDir      = "api.staticDir"
	KeyApiAllowedOrigins = "api.allowedOrigins"

	KeyCheckerMode               = "checker.mode"
	KeyCheckerExpectedProjectIDs = "checker.expectedProjectIds"
	KeyCheckerExpectedDatabase   = "checker.expectedDatabase"
	KeyCheckerConnectivityURL    = "checker.connectivityUrl"
	KeyCheckerTimeout            = "checker.timeout"
	KeyCheckerRetryCount         = "checker.retry.count"
	KeyCheckerRetryDelay         = "checker.retry.delay"
	KeyCheckerReadCollection     = "checker.readCollection"
	KeyCheckerSetupCollection    = "checker.setupCollection"

	KeyLoggingSuppress = "logging.suppress"
)

// envBindings maps the firebase keys to the environment variables they are read from.
// The REACT_APP_ names are the ones the front-end build uses.
var envBindings = map[string][]string{
	KeyFirebaseApiKey:            {"FIREBASE_API_KEY", "REACT_APP_FIREBASE_API_KEY"},
	KeyFirebaseAuthDomain:        {"FIREBASE_AUTH_DOMAIN", "REACT_APP_FIREBASE_AUTH_DOMAIN"},
	KeyFirebaseProjectID:         {"FIREBASE_PROJECT_ID", "REACT_APP_FIREBASE_PROJECT_ID"},
	KeyFirebaseStorageBucket:     {"FIREBASE_STORAGE_BUCKET", "REACT_APP_FIREBASE_STORAGE_BUCKET"},
	KeyFirebaseMessagingSenderID: {"FIREBASE_MESSAGING_SENDER_ID", "REACT_APP_FIREBASE_MESSAGING_SENDER_ID"},
	KeyFirebaseAppID:             {"FIREBASE_APP_ID", "REACT_APP_FIREBASE_APP_ID"},
	KeyFirebaseCredentialsFile:   {"GOOGLE_APPLICATION_CREDENTIALS"},
	KeyFirebaseEmulatorHost:      {"FIRESTORE_EMULATOR_HOST"},
}

// BindEnv binds the environment variables of all keys.
// Firebase keys use their well known names, every other key
// is read from READYGATE_<KEY> with dots replaced by underscores.
func BindEnv(v *viper.Viper) error {
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	v.SetEnvPrefix("readygate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// SetDefaults registers the defaults of NewConfig in v
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault(KeyFirebaseDatabaseID, d.Firebase.DatabaseID)
	v.SetDefault(KeyApiAddress, d.Api.ListeningAddress)
	v.SetDefault(KeyCheckerMode, string(d.Checker.Mode))
	v.SetDefault(KeyCheckerExpectedDatabase, d.Checker.ExpectedDatabase)
	v.SetDefault(KeyCheckerConnectivityURL, d.Checker.ConnectivityURL)
	v.SetDefault(KeyCheckerTimeout, d.Checker.Timeout)
	v.SetDefault(KeyCheckerRetryCount, d.Checker.Retry.Count)
	v.SetDefault(KeyCheckerRetryDelay, d.Checker.Retry.Delay)
	v.SetDefault(KeyCheckerReadCollection, d.Checker.ReadCollection)
	v.SetDefault(KeyCheckerSetupCollection, d.Checker.SetupCollection)
}

// Load decodes the current state of v into a Config.
// Defaults of NewConfig apply to every key v does not know.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	cfg, err := helper.Decode[Config](v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
