// Package protocol centralizes the fcbox wire-level constants: endpoint
// paths, fixed query parameters, header templates and the signing-string
// type codes. Everything here was reverse-engineered from the vendor's
// Android client and is part of the compatibility contract with the
// vendor's app-identification heuristics — any drift makes the vendor
// return a generic failure, not a schema error. Keep values byte-for-byte.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fcbox-relay/internal/api"
)

// DefaultBaseURL is the production vendor endpoint. Tests point the gateway
// at a local server instead.
const DefaultBaseURL = "https://consumer.fcbox.com"

// Endpoint paths.
const (
	PathCheckMobile  = "/v1/account/secureCheckMobile"
	PathSendCode     = "/v1/account/secureSendCode"
	PathLoginByPhone = "/v1/account/secureLoginByPhone"
	PathPageQuery    = "/post/express/pageQuery4App"
	PathWaitPick     = "/post/mobilePick/queryWaitPick"
	PathCabinetInfo  = "/post/clientGet/cabinetVisualInfo"
	PathOpenBox      = "/post/clientGet/openBox"
)

// Signing-string constants. OpCode doubles as the fixed trailing component
// of every pre-hash string and as the opCode query parameter.
const (
	OpCode        = "30b2718363204beeae98b7d03a75c3a4"
	NationCode    = "86"
	SMSTypeCode   = "11" // type code for verification-code requests
	LoginTypeCode = "01" // fixed login-variant code inside the pre-hash string
	LoginChannel  = "0"
	LoginType     = "1"

	// ChannelCodeWaitPick selects the app flavor on the pending-orders path.
	ChannelCodeWaitPick = "ANDROID_FC_APP"
)

// Device/app fingerprint strings. One per endpoint family, captured verbatim
// from the Android client.
const (
	uaAccount = "channel=xiaomi,ip=,os=15,deviceType=2211133C,platform=Android,resolution=1080*2296,versionCode=6007000,versionName=6.7.0,timestamp=1742830229382"
	uaLogin   = "channel=xiaomi,ip=,os=15,deviceType=2211133C,platform=Android,resolution=1080*2296,versionCode=6007000,versionName=6.7.0,timestamp=1742830229383"
	uaOrders  = "channel=xiaomi,ip=192.168.2.101,os=15,deviceType=2211133C,platform=Android,resolution=1080*2296,versionCode=6007000,versionName=6.7.0,timestamp=1742842891659"
	uaVisual  = "channel=xiaomi,ip=40.65.45.56,os=15,deviceType=2211133C,platform=Android,resolution=1080*2296,versionCode=6007000,versionName=6.7.0,timestamp=1742894334183"
)

// Backend-to-vendor credentials. These authenticate this relay's own traffic
// to the vendor; they are distinct from the end user's session token.
const (
	accountUserAuth = "tZGbsbamQGx8PkFPQ1acmgWu3ZW88nQsfdlMl2ZhxWs="
	pickUserAuth    = "akpP6vL3TSanbO2M2DHsFEbSj5kj3lPMdifTbcXUGbg5DW+9/bHk34dqg95Sz7wlG/b+Fj/IAlkGtwgYmyV4aQ=="
	pickUserFlag    = "1061404658809110528"
)

// Fixed trace ids for the account endpoints; the visual endpoints use a
// per-request id derived from the wall clock.
const (
	traceIDCheckMobile = "ConsumerA^1742830234658^73"
	traceIDSendCode    = "ConsumerA^1742830234824^83"
	traceIDLogin       = "ConsumerA^1742830241164^93"
	traceIDWaitPick    = "ConsumerA0fc2d4fc6bfea8b^1742843515003^1713"
)

func visualTraceID() string {
	return fmt.Sprintf("ConsumerA0fc2d4fc6bfea8b^%d^993", time.Now().UnixMilli())
}

// pinpointHeaders are the fixed tracing headers every vendor call carries.
func pinpointHeaders(h map[string]string) map[string]string {
	h["pinpoint-spanid"] = "1"
	h["pinpoint-sampled"] = "true"
	h["pinpoint-pspanid"] = "-1"
	return h
}

// CheckMobileHeaders is the header template for the challenge fetch.
func CheckMobileHeaders() map[string]string {
	return pinpointHeaders(map[string]string{
		"pinpoint-traceid": traceIDCheckMobile,
		"User-Agent":       uaAccount,
		"FC_USER_FLAG":     "",
		"FC_USER_AUTH":     accountUserAuth,
	})
}

// SendCodeHeaders is the header template for the verification-code send.
func SendCodeHeaders() map[string]string {
	return pinpointHeaders(map[string]string{
		"pinpoint-traceid": traceIDSendCode,
		"User-Agent":       uaAccount,
		"FC_USER_FLAG":     "",
		"FC_USER_AUTH":     accountUserAuth,
	})
}

// LoginHeaders is the header template for the login call.
func LoginHeaders() map[string]string {
	return pinpointHeaders(map[string]string{
		"pinpoint-traceid": traceIDLogin,
		"User-Agent":       uaLogin,
		"FC_USER_FLAG":     "",
		"FC_USER_AUTH":     accountUserAuth,
	})
}

// PageQueryHeaders is the header template for the completed-orders query.
// Unlike the account endpoints it carries no trace id and no vendor
// credentials, only the user's session token.
func PageQueryHeaders(authorization string) map[string]string {
	return pinpointHeaders(map[string]string{
		"User-Agent":    uaOrders,
		"Authorization": authorization,
		"Content-Type":  "application/x-www-form-urlencoded",
	})
}

// WaitPickHeaders is the header template for the pending-orders query.
func WaitPickHeaders(authorization string) map[string]string {
	return pinpointHeaders(map[string]string{
		"pinpoint-traceid": traceIDWaitPick,
		"User-Agent":       uaOrders,
		"FC_USER_FLAG":     pickUserFlag,
		"FC_USER_AUTH":     pickUserAuth,
		"Authorization":    authorization,
	})
}

// VisualHeaders is the header template shared by the cabinet-lookup and
// open-box endpoints.
func VisualHeaders(authorization, contentType string) map[string]string {
	return pinpointHeaders(map[string]string{
		"pinpoint-traceid": visualTraceID(),
		"User-Agent":       uaVisual,
		"FC_USER_FLAG":     pickUserFlag,
		"FC_USER_AUTH":     pickUserAuth,
		"Authorization":    authorization,
		"Content-Type":     contentType,
		"Accept-Encoding":  "gzip",
	})
}

// ReassembleKey rebuilds the RSA public key string from the five challenge
// fragments. keyOrder is a comma-separated permutation naming which fragment
// occupies each position; the physical key1..key5 order carries no meaning.
func ReassembleKey(keyOrder string, fragments [5]string) (string, error) {
	parts := strings.Split(keyOrder, ",")
	if len(parts) != len(fragments) {
		return "", fmt.Errorf("keyOrder %q: expected %d indices, got %d", keyOrder, len(fragments), len(parts))
	}
	var b strings.Builder
	for _, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("keyOrder %q: bad index %q", keyOrder, p)
		}
		if idx < 1 || idx > len(fragments) {
			return "", fmt.Errorf("keyOrder %q: index %d out of range", keyOrder, idx)
		}
		b.WriteString(fragments[idx-1])
	}
	return b.String(), nil
}

// OpenBoxBody builds the fixed open-box request template. The local* fields
// mirror what the Android client sends; the vendor validates their presence.
func OpenBoxBody(req api.OpenBoxRequest) map[string]any {
	return map[string]any{
		"cabinetCode":                       req.CabinetCode,
		"channel":                           "APP-ANDRIOD",
		"clientMobile":                      req.ClientMobile,
		"cmdkType":                          "1",
		"expressId":                         req.ExpressID,
		"localActivityId":                   "",
		"localAddress":                      req.Address,
		"localAllBoxIdList":                 req.BoxID,
		"localBoxGlobalRow":                 req.BoxGlobalRow,
		"localCode":                         req.Code,
		"localCurrBoxId":                    req.BoxID,
		"localDigitizationStatus":           0,
		"localFromSource":                   "2",
		"localOneClickOpenCabinetValidTime": "",
		"localOrderId":                      "",
		"localPopupTimeout":                 120,
		"localRefusePackages": []map[string]any{
			{
				"companyLogoUrl": req.CompanyLogoURL,
				"companyName":    req.CompanyName,
				"expressId":      req.ExpressID,
				"expressType":    req.ExpressType,
				"localSelected":  true,
				"postId":         req.PostID,
				"staffMobile":    req.StaffMobile,
			},
		},
		"localRefuseSessionTokenTime": 120,
		"localScanFirst":              true,
		"localScanTotal":              0,
		"localSource":                 "0",
		"localSupportVisual":          false,
		"mobilePickType":              "APP-ANDRIOD",
		"pickType":                    "ANDROID_PICK_MOBILE_APP",
		"postId":                      req.PostID,
	}
}
