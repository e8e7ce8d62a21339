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
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/command/ifc"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiEndpoint()),
	}
}

func statusError(r *req.Resp) error {
	resp := r.Response()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := r.ToString()
	if body != "" {
		return fmt.Errorf("%s: %s", resp.Status, body)
	}
	return errors.New(resp.Status)
}

// Decode sends the capture text to the server and returns the stored report
func (c *ApiClient) Decode(capture string, dump bool) (*decode.ReportView, error) {
	log.Debug("Sending capture: %d bytes dump=%t", len(capture), dump)
	param := req.QueryParam{}
	if dump {
		param["dump"] = "true"
	}
	header := req.Header{"Content-Type": "text/plain"}
	r, err := req.Post(fmt.Sprintf("%s/decode", c.ApiPrefix), header, param, capture)
	if err != nil {
		return nil, err
	}
	if err := statusError(r); err != nil {
		return nil, err
	}
	report := &decode.ReportView{}
	if err := r.ToJSON(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Report gets a report stored by an earlier Decode
func (c *ApiClient) Report(id string) (*decode.ReportView, error) {
	r, err := req.Get(fmt.Sprintf("%s/reports/%s", c.ApiPrefix, id))
	if err != nil {
		return nil, err
	}
	if err := statusError(r); err != nil {
		return nil, err
	}
	report := &decode.ReportView{}
	if err := r.ToJSON(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Messages gets the message catalog the server decodes with
func (c *ApiClient) Messages() ([]*catalog.MessageDescriptor, error) {
	r, err := req.Get(fmt.Sprintf("%s/catalog/messages", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := statusError(r); err != nil {
		return nil, err
	}
	var messages []*catalog.MessageDescriptor
	if err := r.ToJSON(&messages); err != nil {
		return nil, err
	}
	return messages, nil
}
