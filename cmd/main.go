/*
Copyright 2024 Quill Press Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quillpress/quill"
	"github.com/quillpress/quill/config"
	"github.com/quillpress/quill/source"
	"github.com/quillpress/quill/store"
)

// Quill represents the CLI application, encapsulating the root Cobra command.
type Quill struct {
	cmd *cobra.Command
}

// quillInstance holds the service instance and its configuration for the
// lifetime of one command invocation.
type quillInstance struct {
	quill *quill.Quill
	cnf   *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Quill instance before
// running any command. Missing credentials abort here, before any I/O.
func preRun(app *quillInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		// A local .env is optional; real deployments inject env directly.
		_ = godotenv.Load()

		err := config.InitConfig("quill.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newQuill, err := setupQuill(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.quill = newQuill
		app.cnf = cnf

		return nil
	}
}

// setupQuill creates the service from configuration: a GitHub-backed file
// store and a Telegram message source.
func setupQuill(cfg *config.Configuration) (*quill.Quill, error) {
	fileStore := store.NewGitHubStore(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)

	messageSource, err := source.NewTelegramSource(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error connecting message source: %v", err)
	}

	newQuill, err := quill.NewQuill(fileStore, messageSource)
	if err != nil {
		return nil, fmt.Errorf("error creating quill: %v", err)
	}
	return newQuill, nil
}

// NewCLI creates the command-line interface for the Quill application.
func NewCLI() *Quill {
	q := &quillInstance{}

	var rootCmd = &cobra.Command{
		Use:   "quill",
		Short: "Telegram to static-site pending queue ingester",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentPreRunE = preRun(q)
	rootCmd.AddCommand(fetchCommands(q))

	return &Quill{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Quill) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
