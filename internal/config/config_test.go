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
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigOK(t *testing.T) {
	viper.Reset()
	err := ReadConfig("")
	assert.Regexp(t, "Not Found", err.Error())
}

func TestDefaults(t *testing.T) {
	cwd, err := os.Getwd()
	assert.NoError(t, err)
	defer os.Chdir(cwd)
	os.Chdir("../../test/config")
	err = ReadConfig("")
	assert.NoError(t, err)

	assert.Equal(t, "info", GetString(LogLevel))
	assert.True(t, GetBool(LogColor))
	assert.Equal(t, 100, GetInt(EventBatchLimit))
	assert.Equal(t, uint(250), GetUint(SyncRetryInitialDelayMS))
	assert.Equal(t, float64(2.0), GetFloat64(SyncRetryFactor))
}

func TestSpecificConfigFileOk(t *testing.T) {
	err := ReadConfig("../../test/config/floramesh.core.yaml")
	assert.NoError(t, err)
}

func TestSpecificConfigFileFail(t *testing.T) {
	err := ReadConfig("../../test/config/no.hope.yaml")
	assert.Error(t, err)
}

func TestAttemptToAccessRandomKey(t *testing.T) {
	assert.Panics(t, func() {
		GetString("any.key")
	})
}

func TestSetGetMap(t *testing.T) {
	defer Reset()
	Set(RegistryCacheSize, map[string]interface{}{"some": "map"})
	assert.Equal(t, map[string]interface{}{"some": "map"}, GetStringMap(RegistryCacheSize))
}

func TestSetGetRawInterface(t *testing.T) {
	defer Reset()
	type myType struct{ name string }
	Set(RegistryCacheSize, &myType{name: "test"})
	v := Get(RegistryCacheSize)
	assert.Equal(t, myType{name: "test"}, *(v.(*myType)))
}

func TestComponentConfig(t *testing.T) {
	cc := NewComponentConfig("my")
	cc.AddKnownKey("special.config", 12345)
	assert.Equal(t, 12345, cc.GetInt("special.config"))
}

func TestComponentConfigArrayInit(t *testing.T) {
	cc := NewComponentConfig("my").SubPrefix("special")
	cc.AddKnownKey("config", "val1", "val2", "val3")
	assert.Equal(t, []string{"val1", "val2", "val3"}, cc.GetStringSlice("config"))
}

func TestUnmarshalKey(t *testing.T) {
	defer Reset()
	Reset()
	Set(DiscoveryAccount, "0.0.12345")
	var conf struct {
		Account string `json:"account"`
	}
	err := UnmarshalKey(context.Background(), Discovery, &conf)
	assert.NoError(t, err)
	assert.Equal(t, "0.0.12345", conf.Account)
}
