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

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/spf13/viper"
)

// The following keys can be accessed from the root configuration.
// Components are responsible for defining their own keys using the ConfigPrefix interface
var (
	Lang                    RootKey = ark("lang")
	LogLevel                RootKey = ark("log.level")
	LogColor                RootKey = ark("log.color")
	LogUTC                  RootKey = ark("log.utc")
	EventBatchLimit         RootKey = ark("eventsource.batchLimit")
	SyncRetryInitialDelayMS RootKey = ark("sync.retry.initialDelay")
	SyncRetryMaxDelayMS     RootKey = ark("sync.retry.maxDelay")
	SyncRetryFactor         RootKey = ark("sync.retry.factor")
	Discovery               RootKey = ark("discovery")
	DiscoveryAccount        RootKey = ark("discovery.account")
	DiscoveryPetalName      RootKey = ark("discovery.petalName")
	DiscoveryPriority       RootKey = ark("discovery.priority")
	DiscoveryProtocols      RootKey = ark("discovery.protocols")
	FormationTimeoutMS      RootKey = ark("discovery.formation.timeout")
	RegistryCacheSize       RootKey = ark("registry.cache.size")
	RegistryCacheTTLSeconds RootKey = ark("registry.cache.ttl")
)

// ConfigPrefix represents the global configuration, at a nested point in
// the config hierarchy.
//
// Note that all values are GLOBAL so this cannot be used for per-instance
// customization. Rather for global initialization of components.
type ConfigPrefix interface {
	AddKnownKey(key string, defValue ...interface{})
	SubPrefix(suffix string) ConfigPrefix
	Set(key string, value interface{})

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	UnmarshalKey(ctx context.Context, key string, rawVal interface{}) error
	Get(key string) interface{}
}

// RootKey are the known configuration keys
type RootKey string

func Reset() {
	viper.Reset()

	// Set defaults
	viper.SetDefault(string(Lang), "en")
	viper.SetDefault(string(LogLevel), "info")
	viper.SetDefault(string(LogColor), true)
	viper.SetDefault(string(LogUTC), false)
	viper.SetDefault(string(EventBatchLimit), 100)
	viper.SetDefault(string(SyncRetryInitialDelayMS), 250)
	viper.SetDefault(string(SyncRetryMaxDelayMS), 30000)
	viper.SetDefault(string(SyncRetryFactor), 2.0)
	viper.SetDefault(string(DiscoveryPriority), 500)
	viper.SetDefault(string(FormationTimeoutMS), 120000)
	viper.SetDefault(string(RegistryCacheSize), 100)
	viper.SetDefault(string(RegistryCacheTTLSeconds), 300)

	i18n.SetLang(GetString(Lang))
}

// ReadConfig initializes the config
func ReadConfig(cfgFile string) error {
	Reset()

	// Set precedence order for reading config location
	viper.SetEnvPrefix("floramesh")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		f, err := os.Open(cfgFile)
		if err == nil {
			defer f.Close()
			err = viper.ReadConfig(f)
		}
		return err
	}
	viper.SetConfigName("floramesh.core")
	viper.AddConfigPath("/etc/floramesh/")
	viper.AddConfigPath("$HOME/.floramesh")
	viper.AddConfigPath(".")
	return viper.ReadInConfig()
}

var root *configPrefix = &configPrefix{
	keys: map[string]bool{}, // All keys go here, including those defined in sub prefixes
}

// ark adds a root key, used to define the keys that are used within the core
func ark(k string) RootKey {
	root.AddKnownKey(k)
	return RootKey(k)
}

// configPrefix is the main config structure passed to components, and used for root to wrap viper
type configPrefix struct {
	prefix string
	keys   map[string]bool
}

// NewComponentConfig creates a new component configuration object, at the specified prefix
func NewComponentConfig(prefix string) ConfigPrefix {
	if !strings.HasSuffix(prefix, ".") {
		prefix = prefix + "."
	}
	return &configPrefix{
		prefix: prefix,
		keys:   root.keys,
	}
}

func (c *configPrefix) prefixKey(k string) string {
	key := c.prefix + k
	if !c.keys[key] {
		panic(fmt.Sprintf("Undefined configuration key '%s'", key))
	}
	return key
}

func (c *configPrefix) SubPrefix(suffix string) ConfigPrefix {
	return &configPrefix{
		prefix: c.prefix + suffix + ".",
		keys:   root.keys,
	}
}

func (c *configPrefix) AddKnownKey(k string, defValue ...interface{}) {
	key := c.prefix + k
	if len(defValue) == 1 {
		viper.SetDefault(key, defValue[0])
	} else if len(defValue) > 0 {
		viper.SetDefault(key, defValue)
	}
	c.keys[key] = true
}

// GetString gets a configuration string
func GetString(key RootKey) string {
	return root.GetString(string(key))
}
func (c *configPrefix) GetString(key string) string {
	return viper.GetString(c.prefixKey(key))
}

// GetStringSlice gets a configuration string array
func GetStringSlice(key RootKey) []string {
	return root.GetStringSlice(string(key))
}
func (c *configPrefix) GetStringSlice(key string) []string {
	return viper.GetStringSlice(c.prefixKey(key))
}

// GetBool gets a configuration bool
func GetBool(key RootKey) bool {
	return root.GetBool(string(key))
}
func (c *configPrefix) GetBool(key string) bool {
	return viper.GetBool(c.prefixKey(key))
}

// GetUint gets a configuration uint
func GetUint(key RootKey) uint {
	return root.GetUint(string(key))
}
func (c *configPrefix) GetUint(key string) uint {
	return viper.GetUint(c.prefixKey(key))
}

// GetInt gets a configuration int
func GetInt(key RootKey) int {
	return root.GetInt(string(key))
}
func (c *configPrefix) GetInt(key string) int {
	return viper.GetInt(c.prefixKey(key))
}

// GetFloat64 gets a configuration float
func GetFloat64(key RootKey) float64 {
	return root.GetFloat64(string(key))
}
func (c *configPrefix) GetFloat64(key string) float64 {
	return viper.GetFloat64(c.prefixKey(key))
}

// GetStringMap gets a configuration map
func GetStringMap(key RootKey) map[string]interface{} {
	return root.GetStringMap(string(key))
}
func (c *configPrefix) GetStringMap(key string) map[string]interface{} {
	return viper.GetStringMap(c.prefixKey(key))
}

// Get gets a configuration in raw form
func Get(key RootKey) interface{} {
	return root.Get(string(key))
}
func (c *configPrefix) Get(key string) interface{} {
	return viper.Get(c.prefixKey(key))
}

// Set allows runtime setting of config (used in unit tests)
func Set(key RootKey, value interface{}) {
	root.Set(string(key), value)
}
func (c *configPrefix) Set(key string, value interface{}) {
	viper.Set(c.prefixKey(key), value)
}

// UnmarshalKey gets a configuration section into a struct
func UnmarshalKey(ctx context.Context, key RootKey, rawVal interface{}) error {
	return root.UnmarshalKey(ctx, string(key), rawVal)
}
func (c *configPrefix) UnmarshalKey(ctx context.Context, key string, rawVal interface{}) error {
	// Viper's unmarshal does not work with our json annotated config
	// structures, so we have to go from map to JSON, then to unmarshal
	var intermediate map[string]interface{}
	err := viper.UnmarshalKey(c.prefixKey(key), &intermediate)
	if err == nil {
		b, _ := json.Marshal(intermediate)
		err = json.Unmarshal(b, rawVal)
	}
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgConfigFailed, key)
	}
	return nil
}
