// Package mock provides a canned-data locker vendor for standalone mode,
// where no traffic leaves the process. The mock serves a real RSA public
// key so the signing path runs end to end.
package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fcbox-relay/internal/api"
	"fcbox-relay/internal/models"
)

type MockVendor struct {
	logger     *slog.Logger
	privateKey *rsa.PrivateKey
	publicKey  string // base64 DER, served fragment-split like the vendor does
}

func NewMockVendor(logger *slog.Logger) (*MockVendor, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mock vendor key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mock vendor key: %v", err)
	}
	return &MockVendor{
		logger:     logger,
		privateKey: privateKey,
		publicKey:  base64.StdEncoding.EncodeToString(der),
	}, nil
}

// PrivateKey exposes the mock's RSA key so tests can decrypt signatures.
func (m *MockVendor) PrivateKey() *rsa.PrivateKey { return m.privateKey }

func (m *MockVendor) FetchChallenge(phoneNumber string) (*models.Challenge, error) {
	m.logger.Debug("mock challenge", slog.String("component", "mock"), slog.String("mobile", phoneNumber))
	return &models.Challenge{
		PublicKey:   m.publicKey,
		ClientIP:    "127.0.0.1",
		RequestCode: "mock-request-code",
		Timestamp:   fmt.Sprintf("%d", time.Now().UnixMilli()),
		NeedSlider:  false,
		Raw:         json.RawMessage(`{"success":true,"message":"mock"}`),
	}, nil
}

func (m *MockVendor) SendCode(phoneNumber, sliderTicket, sliderRandstr, sign string) (json.RawMessage, error) {
	m.logger.Debug("mock send code", slog.String("component", "mock"), slog.String("mobile", phoneNumber))
	return json.RawMessage(`{"success":true,"message":"验证码已发送"}`), nil
}

func (m *MockVendor) Login(phoneNumber, verificationCode, sign string) (*models.LoginResult, error) {
	m.logger.Debug("mock login", slog.String("component", "mock"), slog.String("mobile", phoneNumber))
	return &models.LoginResult{
		Body:          json.RawMessage(`{"success":true,"message":"mock login"}`),
		Authorization: fmt.Sprintf("mock-token-%d", time.Now().Unix()),
	}, nil
}

func (m *MockVendor) QueryCompleted(authorization string, page, pageSize int) (*models.PageQueryResponse, error) {
	return &models.PageQueryResponse{
		Success: true,
		Data: &models.PageQueryData{
			ExpressInfoDtos: []models.FlatOrderRecord{
				{
					ExpressID:   "SF0000000001",
					CompanyName: "顺丰速运",
					Code:        "123456",
					BoxID:       "12",
					CabinetCode: "CAB-001",
					Address:     "小区南门",
					SendTm:      "2025-03-24 10:00:00",
					PickTm:      "2025-03-24 18:30:00",
				},
			},
			Total: 1,
		},
	}, nil
}

func (m *MockVendor) QueryPending(authorization string) (*models.WaitPickResponse, error) {
	return &models.WaitPickResponse{
		Success: true,
		Data: &models.WaitPickData{
			Cabinets: []models.Cabinet{
				{
					CabinetCode: "CAB-002",
					Address:     "小区北门",
					Boxes: []models.Box{
						{
							BoxID:    "7",
							Location: "3排2列",
							Packages: []models.PackageRecord{
								{
									ExpressID:   "YT0000000002",
									CompanyName: "圆通速递",
									Code:        "654321",
									SendTm:      "2025-03-25 09:15:00",
								},
							},
						},
					},
				},
			},
		},
	}, nil
}

func (m *MockVendor) CabinetInfo(authorization, cabinetCode string) (*models.ActionResult, error) {
	return &models.ActionResult{
		Success: true,
		Data:    json.RawMessage(fmt.Sprintf(`{"cabinetCode":%q,"rows":6,"columns":14}`, cabinetCode)),
	}, nil
}

func (m *MockVendor) OpenBox(authorization string, req api.OpenBoxRequest) (*models.ActionResult, error) {
	m.logger.Debug("mock open box",
		slog.String("component", "mock"),
		slog.String("cabinet", req.CabinetCode),
		slog.String("box", req.BoxID))
	return &models.ActionResult{
		Success: true,
		Data:    json.RawMessage(`{"opened":true}`),
	}, nil
}
