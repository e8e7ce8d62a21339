/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package cmd has the pieces shared by the go-lwl commands: getting a
// catalog and a decoder set up from the config.
package cmd

import (
	"context"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
	"jinr.ru/greenlab/go-lwl/pkg/log"
	"jinr.ru/greenlab/go-lwl/pkg/scan"
	"jinr.ru/greenlab/go-lwl/pkg/state"
)

// Scan scans the source dirs with the extensions from the config when
// extensions is empty.
func Scan(cfg *config.Config, dirs, extensions []string) (*scan.Result, error) {
	if len(extensions) == 0 {
		extensions = cfg.Extensions
	}
	scanner, err := scan.New(extensions...)
	if err != nil {
		return nil, err
	}
	result, err := scanner.ScanDirs(dirs...)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) != 0 {
		log.Warning("Errors detected parsing source code: %d", len(result.Errors))
	}
	return result, nil
}

// Catalog scans dirs when given, otherwise loads the catalog saved in the
// store.
func Catalog(ctx context.Context, cfg *config.Config, dirs, extensions []string) (*catalog.Catalog, error) {
	if len(dirs) != 0 {
		result, err := Scan(cfg, dirs, extensions)
		if err != nil {
			return nil, err
		}
		return result.Catalog(), nil
	}

	st, err := state.NewState(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.LoadCatalog()
}

// Decoder is a decoder for cat using the byte order from the config.
func Decoder(cfg *config.Config, cat *catalog.Catalog) (*decode.Decoder, error) {
	order, ok := decode.ParseOrder(cfg.ByteOrder)
	if !ok {
		return nil, decode.ErrUnknownByteOrder{Name: cfg.ByteOrder}
	}
	return decode.NewDecoder(cat, decode.WithByteOrder(order)), nil
}
