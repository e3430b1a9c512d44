// The azb manager wires configuration, logging and the configured blob
// provider together for library users and the CLI.
package azbmgr

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/storagekit/azb/pkg/azb"
	"github.com/storagekit/azb/pkg/azure"
)

type Manager struct {
	Provider *azb.Provider
	Logger   azb.Logger
	Cfg      *viper.Viper
}

// NewManager builds a manager from user options. Recognized options:
//   "config-file" (string)   : explicit config path
//   "logger" (azb.Logger)    : caller-provided logger
func NewManager(userCfg map[string]interface{}) (*Manager, error) {
	var err error
	mgr := &Manager{}

	if cfgPathRaw, ok := userCfg["config-file"]; ok {
		if cfgPath, ok := cfgPathRaw.(string); ok {
			err = mgr.initConfig(&cfgPath)
		} else {
			return nil, errors.New("option 'config-file' must be of type string")
		}
	} else {
		err = mgr.initConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	if loggerRaw, ok := userCfg["logger"]; ok {
		if logger, ok := loggerRaw.(azb.Logger); ok {
			mgr.Logger = logger
		} else {
			return nil, errors.New("option 'logger' must satisfy azb.Logger")
		}
	} else {
		mgr.Logger = logrus.New()
	}

	mgr.Provider = &azb.Provider{}
	if err := mgr.initBlobService(); err != nil {
		return nil, err
	}

	return mgr, nil
}

func (self *Manager) Destroy() {
	self.Provider.Blob.Destroy()
}

func (self *Manager) initConfig(cfgPath *string) error {
	// Setup defaults and globals here. These can be overwritten in the
	// config, but aren't included by default.

	// This is a private viper context just for azb (so as not to conflict
	// with the importer's usage).
	self.Cfg = viper.New()

	self.Cfg.SetDefault("default-provider", "azure")
	self.Cfg.SetDefault("providers.azure.blob", "azure")
	self.Cfg.SetDefault("service.blob.azure.blocksize", azure.DefaultBlockSize)
	self.Cfg.SetDefault("service.blob.azure.debughttp", false)

	// Order of precedence: ENV, azb.yaml
	self.Cfg.BindEnv("service.blob.azure.account", "AZURE_STORAGE_ACCOUNT")
	self.Cfg.BindEnv("service.blob.azure.key", "AZURE_STORAGE_KEY")

	if cfgPath != nil {
		// Use config file from the flag.
		self.Cfg.SetConfigFile(*cfgPath)
	} else {
		// default search path for config is ./configs/azb.* (* can be json, yaml, etc)
		self.Cfg.AddConfigPath("./configs")
		self.Cfg.SetConfigName("azb")
	}

	// Config file is optional when account and key arrive via environment.
	if err := self.Cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgPath != nil {
			return errors.Wrap(err, "Failed to load config")
		}
	}
	return nil
}

func (self *Manager) initBlobService() error {
	providerName := self.Cfg.GetString("default-provider")
	if providerName == "" {
		return errors.New("No default provider in configuration")
	}

	serviceName := self.Cfg.GetString("providers." + providerName + ".blob")
	if serviceName == "" {
		return errors.New("Provider \"" + providerName + "\" does not provide a blob service")
	}

	var err error = nil
	switch serviceName {
	case "azure":
		self.Provider.Blob, err = azure.NewConfig(
			self.Logger.WithField("module", "blob.azure"),
			self.serviceConfig("service.blob.azure"))
	default:
		return errors.New("Unrecognized blob service: " + serviceName)
	}

	if err != nil {
		return errors.Wrap(err, "Failed to initialize service "+serviceName)
	}
	return nil
}

// serviceConfig returns the sub-config rooted at key. viper's Sub builds only
// from the config/default maps and never consults leaf-level env bindings, so
// the env-bound credential leaves are re-read through the root viper and
// copied in. Without this, credentials arriving via AZURE_STORAGE_ACCOUNT /
// AZURE_STORAGE_KEY would never reach the provider.
func (self *Manager) serviceConfig(key string) *viper.Viper {
	sub := self.Cfg.Sub(key)
	if sub == nil {
		sub = viper.New()
	}
	for _, leaf := range []string{"account", "key"} {
		if v := self.Cfg.GetString(key + "." + leaf); v != "" {
			sub.Set(leaf, v)
		}
	}
	return sub
}
