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

package command

import (
	"context"

	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
	"jinr.ru/greenlab/go-lwl/pkg/log"
	"jinr.ru/greenlab/go-lwl/pkg/srv"
	"jinr.ru/greenlab/go-lwl/pkg/state"
)

// StartApiServer serves the catalog saved in the store until ctx is done
func StartApiServer(ctx context.Context, cfg *config.Config) error {
	st, err := state.NewState(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := st.LoadCatalog()
	if err != nil {
		return err
	}
	log.Info("Loaded catalog: %d messages", cat.Messages.Len())

	order, ok := decode.ParseOrder(cfg.ByteOrder)
	if !ok {
		return decode.ErrUnknownByteOrder{Name: cfg.ByteOrder}
	}
	s, err := srv.NewApiServer(ctx, cfg, cat, st, decode.WithByteOrder(order))
	if err != nil {
		return err
	}
	return s.Run()
}
