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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_CHECKPOINT_PATH = "data/last-update-id.json"
	DEFAULT_QUEUE_PATH      = "data/pending-messages.json"
	DEFAULT_IMAGE_DIR       = "static/images"
	DEFAULT_IMAGE_PREFIX    = "/images"
	DEFAULT_POLL_TIMEOUT    = 30
	DEFAULT_MERGE_RETRIES   = 3
)

var ConfigStore atomic.Value

type TelegramConfig struct {
	BotToken           string `json:"bot_token" envconfig:"QUILL_TELEGRAM_BOT_TOKEN"`
	PollTimeoutSeconds int    `json:"poll_timeout_seconds" envconfig:"QUILL_TELEGRAM_POLL_TIMEOUT"`
}

type GitHubConfig struct {
	Token  string `json:"token" envconfig:"QUILL_GITHUB_TOKEN"`
	Owner  string `json:"owner" envconfig:"QUILL_GITHUB_OWNER"`
	Repo   string `json:"repo" envconfig:"QUILL_GITHUB_REPO"`
	Branch string `json:"branch" envconfig:"QUILL_GITHUB_BRANCH"`
}

type StorageConfig struct {
	CheckpointPath string `json:"checkpoint_path" envconfig:"QUILL_STORAGE_CHECKPOINT_PATH"`
	QueuePath      string `json:"queue_path" envconfig:"QUILL_STORAGE_QUEUE_PATH"`
	ImageDir       string `json:"image_dir" envconfig:"QUILL_STORAGE_IMAGE_DIR"`
	ImagePrefix    string `json:"image_prefix" envconfig:"QUILL_STORAGE_IMAGE_PREFIX"`
	MergeRetries   int    `json:"merge_retries" envconfig:"QUILL_STORAGE_MERGE_RETRIES"`
}

type Configuration struct {
	ProjectName string         `json:"project_name" envconfig:"QUILL_PROJECT_NAME"`
	Telegram    TelegramConfig `json:"telegram"`
	GitHub      GitHubConfig   `json:"github"`
	Storage     StorageConfig  `json:"storage"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("quill", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called quill.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Quill Ingest"
	}

	if cnf.Telegram.BotToken == "" {
		log.Println("Error: Telegram bot token is empty. It's a required field.")
		return errors.New("telegram bot token is required")
	}

	if cnf.GitHub.Token == "" {
		log.Println("Error: GitHub token is empty. It's a required field.")
		return errors.New("github token is required")
	}

	if cnf.GitHub.Owner == "" || cnf.GitHub.Repo == "" {
		log.Println("Error: GitHub owner/repo is empty. Both are required fields.")
		return errors.New("github owner and repo are required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Telegram.BotToken = strings.TrimSpace(cnf.Telegram.BotToken)
	cnf.GitHub.Token = strings.TrimSpace(cnf.GitHub.Token)
	cnf.GitHub.Owner = strings.TrimSpace(cnf.GitHub.Owner)
	cnf.GitHub.Repo = strings.TrimSpace(cnf.GitHub.Repo)
	cnf.GitHub.Branch = strings.TrimSpace(cnf.GitHub.Branch)

	if cnf.Storage.CheckpointPath == "" {
		cnf.Storage.CheckpointPath = DEFAULT_CHECKPOINT_PATH
	}
	if cnf.Storage.QueuePath == "" {
		cnf.Storage.QueuePath = DEFAULT_QUEUE_PATH
	}
	if cnf.Storage.ImageDir == "" {
		cnf.Storage.ImageDir = DEFAULT_IMAGE_DIR
	}
	if cnf.Storage.ImagePrefix == "" {
		cnf.Storage.ImagePrefix = DEFAULT_IMAGE_PREFIX
	}
	if cnf.Storage.MergeRetries <= 0 {
		cnf.Storage.MergeRetries = DEFAULT_MERGE_RETRIES
	}
	if cnf.Telegram.PollTimeoutSeconds <= 0 {
		log.Printf("Warning: Poll timeout not specified in config. Setting default: %ds", DEFAULT_POLL_TIMEOUT)
		cnf.Telegram.PollTimeoutSeconds = DEFAULT_POLL_TIMEOUT
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
