// Reader is a client of the http reporter, used by tests and the CLI.

package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/TEENet-io/cardano-utxo/binding"
)

type HttpReader struct {
	baseURL string // eg. http://127.0.0.1:8080
	client  *http.Client
}

func NewHttpReader(baseURL string) *HttpReader {
	return &HttpReader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// StatusError carries a non-2xx reply of the reporter.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reporter replied %d: %s", e.Code, e.Message)
}

func (hr *HttpReader) GetHello() (string, error) {
	resp, err := hr.client.Get(hr.baseURL + ROUTE_HELLO)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostSelect returns ok == false when the reporter answers "insufficient".
func (hr *HttpReader) PostSelect(req *binding.SelectRequest) (*binding.SelectResult, bool, error) {
	var res binding.SelectResult
	err := hr.do(http.MethodPost, ROUTE_SELECT, req, &res)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusUnprocessableEntity {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (hr *HttpReader) GetBalance() (*BalanceResponse, error) {
	var res BalanceResponse
	if err := hr.do(http.MethodGet, ROUTE_VAULT_BALANCE, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (hr *HttpReader) do(method, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, hr.baseURL+route, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hr.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
