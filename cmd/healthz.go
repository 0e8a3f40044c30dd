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

package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/config"
	"github.com/caas-team/readygate/pkg/healthz"
)

var errUnhealthy = errors.New("readygate is unhealthy")

// NewCmdHealthz creates a new healthz command
func NewCmdHealthz() *cobra.Command {
	var ready bool

	cmd := &cobra.Command{
		Use:   "healthz",
		Short: "Query the health of a running readygate",
		Long:  `Checks that a running readygate serves its api. With --ready it also has to be in the ready state`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
			if err := initConfig(); err != nil {
				return err
			}

			c := healthz.New(viper.GetString(config.KeyApiAddress))
			if !c.CheckOverallHealth(ctx, ready) {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ready, "ready", false, "require the backend to have passed the readiness check")

	return cmd
}
