// Package real implements the outbound fcbox gateway over HTTP.
package real

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fcbox-relay/internal/api"
	"fcbox-relay/internal/interfaces"
	"fcbox-relay/internal/models"
	"fcbox-relay/internal/protocol"
)

type FcboxClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewFcboxClient(baseURL string, logger *slog.Logger) *FcboxClient {
	return &FcboxClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// FetchChallenge retrieves the signing parameters for a phone number and
// reconstructs the RSA public key from the five reordered fragments.
func (c *FcboxClient) FetchChallenge(phoneNumber string) (*models.Challenge, error) {
	const op = "secureCheckMobile"

	query := url.Values{
		"mobile":     {phoneNumber},
		"type":       {protocol.SMSTypeCode},
		"opCode":     {protocol.OpCode},
		"nationCode": {protocol.NationCode},
	}
	body, _, err := c.call(op, http.MethodGet, protocol.PathCheckMobile, query, nil, protocol.CheckMobileHeaders())
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &interfaces.ParseError{Op: op, Err: errors.New("challenge data missing")}
	}
	var data models.ChallengeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}

	publicKey, err := protocol.ReassembleKey(data.KeyOrder, data.Fragments())
	if err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}

	c.logger.Debug("challenge fetched",
		slog.String("component", "fcbox"),
		slog.String("request_code", data.RequestCode),
		slog.Bool("need_slider", data.NeedSliderCode == "true"))

	return &models.Challenge{
		PublicKey:   publicKey,
		ClientIP:    data.ClientIP,
		RequestCode: data.RequestCode,
		Timestamp:   data.Timestamp.String(),
		NeedSlider:  data.NeedSliderCode == "true",
		Raw:         json.RawMessage(body),
	}, nil
}

// SendCode submits a signed verification-code request. The vendor takes
// everything in the query string; the body is empty.
func (c *FcboxClient) SendCode(phoneNumber, sliderTicket, sliderRandstr, sign string) (json.RawMessage, error) {
	const op = "secureSendCode"

	query := url.Values{
		"mobile":        {phoneNumber},
		"type":          {protocol.SMSTypeCode},
		"opCode":        {protocol.OpCode},
		"nationCode":    {protocol.NationCode},
		"sliderTicket":  {sliderTicket},
		"sliderRandstr": {sliderRandstr},
		"sign":          {sign},
	}
	body, _, err := c.call(op, http.MethodPost, protocol.PathSendCode, query, nil, protocol.SendCodeHeaders())
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &interfaces.ParseError{Op: op, Err: errors.New("body is not JSON")}
	}
	return json.RawMessage(body), nil
}

// Login submits a signed login. The session token arrives in the
// Authorization response header, not the body; its absence is a
// valid-but-degraded outcome.
func (c *FcboxClient) Login(phoneNumber, verificationCode, sign string) (*models.LoginResult, error) {
	const op = "secureLoginByPhone"

	query := url.Values{
		"mobile":     {phoneNumber},
		"verifyCode": {verificationCode},
		"channel":    {protocol.LoginChannel},
		"type":       {protocol.LoginType},
		"weiXinUser": {""},
		"nationCode": {protocol.NationCode},
		"opCode":     {protocol.OpCode},
		"sign":       {sign},
	}
	body, header, err := c.call(op, http.MethodPost, protocol.PathLoginByPhone, query, nil, protocol.LoginHeaders())
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &interfaces.ParseError{Op: op, Err: errors.New("body is not JSON")}
	}

	authorization := header.Get("Authorization")
	if authorization == "" {
		c.logger.Warn("login response carried no Authorization header",
			slog.String("component", "fcbox"))
	}
	return &models.LoginResult{
		Body:          json.RawMessage(body),
		Authorization: authorization,
	}, nil
}

// QueryCompleted fetches one vendor-paginated page of picked-up orders.
func (c *FcboxClient) QueryCompleted(authorization string, page, pageSize int) (*models.PageQueryResponse, error) {
	const op = "pageQuery4App"

	form := url.Values{
		"expressStatus": {"2"},
		"pageNo":        {strconv.Itoa(page)},
		"pageSize":      {strconv.Itoa(pageSize)},
	}
	body, _, err := c.call(op, http.MethodPost, protocol.PathPageQuery, nil,
		strings.NewReader(form.Encode()), protocol.PageQueryHeaders(authorization))
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}
	res := &models.PageQueryResponse{Success: env.Success, Message: env.Message}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var data models.PageQueryData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, &interfaces.ParseError{Op: op, Err: err}
		}
		res.Data = &data
	}
	return res, nil
}

// QueryPending fetches the full waiting-pickup tree; the vendor has no
// pagination on this path.
func (c *FcboxClient) QueryPending(authorization string) (*models.WaitPickResponse, error) {
	const op = "queryWaitPick"

	query := url.Values{"channelCode": {protocol.ChannelCodeWaitPick}}
	body, _, err := c.call(op, http.MethodGet, protocol.PathWaitPick, query, nil, protocol.WaitPickHeaders(authorization))
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}
	res := &models.WaitPickResponse{Success: env.Success, Message: env.Message}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var data models.WaitPickData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, &interfaces.ParseError{Op: op, Err: err}
		}
		res.Data = &data
	}
	return res, nil
}

// CabinetInfo looks up the visual layout of a cabinet.
func (c *FcboxClient) CabinetInfo(authorization, cabinetCode string) (*models.ActionResult, error) {
	const op = "cabinetVisualInfo"

	form := url.Values{"cabinetCode": {cabinetCode}}
	body, _, err := c.call(op, http.MethodPost, protocol.PathCabinetInfo, nil,
		strings.NewReader(form.Encode()), protocol.VisualHeaders(authorization, "application/x-www-form-urlencoded"))
	if err != nil {
		return nil, err
	}
	return decodeAction(op, body)
}

// OpenBox asks the vendor to open the box holding a package.
func (c *FcboxClient) OpenBox(authorization string, req api.OpenBoxRequest) (*models.ActionResult, error) {
	const op = "openBox"

	payload, err := json.Marshal(protocol.OpenBoxBody(req))
	if err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}
	body, _, err := c.call(op, http.MethodPost, protocol.PathOpenBox, nil,
		bytes.NewReader(payload), protocol.VisualHeaders(authorization, "application/json"))
	if err != nil {
		return nil, err
	}
	return decodeAction(op, body)
}

func decodeAction(op string, body []byte) (*models.ActionResult, error) {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &interfaces.ParseError{Op: op, Err: err}
	}
	return &models.ActionResult{
		Success: env.Success,
		Message: env.Message,
		Data:    env.Data,
	}, nil
}

// call issues one vendor request and applies the shared degradation rules:
// network failure, non-200 status and empty body all surface as
// TransportError. Connection, Content-Length and Host are managed by
// net/http and are not part of the header templates.
func (c *FcboxClient) call(op, method, path string, query url.Values, body io.Reader, headers map[string]string) ([]byte, http.Header, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, nil, &interfaces.TransportError{Op: op, Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &interfaces.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &interfaces.TransportError{Op: op, Err: err}
	}

	c.logger.Debug("vendor call",
		slog.String("component", "fcbox"),
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &interfaces.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if len(respBody) == 0 {
		return nil, nil, &interfaces.TransportError{Op: op, Err: errors.New("empty response body")}
	}
	return respBody, resp.Header, nil
}
