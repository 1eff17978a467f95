package api

import (
	"encoding/json"

	"fcbox-relay/internal/models"
)

// Inbound request models

type VerificationRequest struct {
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	SliderTicket  string `json:"sliderTicket"`
	SliderRandstr string `json:"sliderRandstr"`
}

type LoginRequest struct {
	PhoneNumber      string            `json:"phoneNumber" binding:"required"`
	VerificationCode string            `json:"verificationCode" binding:"required"`
	RSAPublicKey     string            `json:"rsaPublicKey" binding:"required"`
	ClientIP         string            `json:"clientIp" binding:"required"`
	RequestCode      string            `json:"requestCode" binding:"required"`
	Timestamp        models.FlexString `json:"timestamp" binding:"required"`
}

type CabinetLocationRequest struct {
	ExpressID   string `json:"expressId" binding:"required"`
	BoxID       string `json:"boxId"`
	CabinetCode string `json:"cabinetCode"`
}

type OpenBoxRequest struct {
	CabinetCode    string `json:"cabinetCode" binding:"required"`
	BoxID          string `json:"boxId" binding:"required"`
	ExpressID      string `json:"expressId" binding:"required"`
	ClientMobile   string `json:"clientMobile" binding:"required"`
	StaffMobile    string `json:"staffMobile" binding:"required"`
	CompanyLogoURL string `json:"companyLogoUrl" binding:"required"`
	CompanyName    string `json:"companyName" binding:"required"`
	ExpressType    int    `json:"expressType" binding:"required"`
	PostID         string `json:"postId" binding:"required"`
	Code           string `json:"code" binding:"required"`
	BoxGlobalRow   string `json:"boxGlobalRow" binding:"required"`
	Address        string `json:"address" binding:"required"`
}

// Response models

// SignParams echoes back the challenge parameters a client needs to build
// the follow-up login request. Key names are part of the client contract.
type SignParams struct {
	RSAPublicKey string `json:"rsa_public_key"`
	ClientIP     string `json:"client_ip"`
	RequestCode  string `json:"request_code"`
	Timestamp    string `json:"timestamp"`
}

type SendCodeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Params  SignParams      `json:"params"`
}

// SendCodeFailure reports a failed signing or vendor step; Data carries the
// raw challenge body when one was obtained before the failure.
type SendCodeFailure struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type LoginResponse struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data"`
	Authorization string          `json:"authorization"`
}

type LoginFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// OrderListResponse is shared by the completed and pending order endpoints.
// Total is only reported for completed orders; the vendor has no total for
// the pending path.
type OrderListResponse struct {
	Success  bool                     `json:"success"`
	Data     []models.NormalizedOrder `json:"data"`
	Message  string                   `json:"message,omitempty"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
	Total    *int                     `json:"total,omitempty"`
}

// ActionResponse is shared by the cabinet-lookup and open-box endpoints.
type ActionResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}
