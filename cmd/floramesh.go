// Copyright © 2026 Floramesh Contributors
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/replay"
	"github.com/floramesh/floramesh/internal/wire"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "floramesh",
	Short: "Floramesh consensus topic replay engine",
	Long: `Floramesh reconstructs petal discovery, poll and registry state
deterministically from the ordered events of consensus topics`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var replayFile string
var replayTopic string
var replayProtocol string
var replaySkillUID uint64

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a captured topic log and print the reconstructed state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := initialize()
		if err != nil {
			return err
		}
		result, err := replay.Run(ctx, replayFile, replayTopic, replayProtocol, replaySkillUID)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "", "config file")
	replayCmd.Flags().StringVarP(&replayFile, "file", "i", "", "captured event log (JSON)")
	replayCmd.Flags().StringVarP(&replayTopic, "topic", "t", "", "topic ID to replay")
	replayCmd.Flags().StringVarP(&replayProtocol, "protocol", "p", wire.ProtocolDiscovery, "protocol of the topic (flora|poll|registry)")
	replayCmd.Flags().Uint64VarP(&replaySkillUID, "skill", "s", 0, "skill uid for registry version queries")
	_ = replayCmd.MarkFlagRequired("file")
	_ = replayCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(replayCmd)
}

// initialize reads the config then sets up logging, so the header comes out
// with the configured formatting even when the read failed
func initialize() (context.Context, error) {
	err := config.ReadConfig(cfgFile)

	ctx := log.WithLogger(context.Background(), logrus.WithField("pid", os.Getpid()))
	log.SetLevel(config.GetString(config.LogLevel))
	log.SetFormatting(log.Formatting{
		ForceColor: config.GetBool(config.LogColor),
		UTC:        config.GetBool(config.LogUTC),
	})
	log.L(ctx).Infof("Floramesh")

	if err != nil {
		return ctx, i18n.WrapError(ctx, err, i18n.MsgConfigFailed, err)
	}
	return ctx, nil
}

// Execute is called by the main method of the package
func Execute() error {
	return rootCmd.Execute()
}
