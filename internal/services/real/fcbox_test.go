package real

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fcbox-relay/internal/api"
	"fcbox-relay/internal/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *FcboxClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewFcboxClient(server.URL, testLogger())
}

func TestFetchChallengeReassemblesKey(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"mobile":     r.URL.Query().Get("mobile"),
			"type":       r.URL.Query().Get("type"),
			"opCode":     r.URL.Query().Get("opCode"),
			"nationCode": r.URL.Query().Get("nationCode"),
		}
		if r.Header.Get("FC_USER_AUTH") == "" {
			t.Error("challenge request missing FC_USER_AUTH header")
		}
		// key3+key1+key4+key2+key5 per keyOrder
		w.Write([]byte(`{"success":true,"data":{
			"keyOrder":"3,1,4,2,5",
			"key1":"BBB","key2":"DDD","key3":"AAA","key4":"CCC","key5":"EEE",
			"clientIp":"9.9.9.9","requestCode":"rc-1",
			"timestamp":1742830234658,"needSliderCode":"true"}}`))
	})

	challenge, err := client.FetchChallenge("13800138000")
	if err != nil {
		t.Fatalf("FetchChallenge failed: %v", err)
	}
	if challenge.PublicKey != "AAABBBCCCDDDEEE" {
		t.Errorf("key not reassembled per keyOrder: %q", challenge.PublicKey)
	}
	if challenge.ClientIP != "9.9.9.9" || challenge.RequestCode != "rc-1" {
		t.Errorf("challenge parameters wrong: %+v", challenge)
	}
	if challenge.Timestamp != "1742830234658" {
		t.Errorf("numeric timestamp must decode to string, got %q", challenge.Timestamp)
	}
	if !challenge.NeedSlider {
		t.Error("needSliderCode=true must set NeedSlider")
	}
	if gotQuery["mobile"] != "13800138000" || gotQuery["type"] != "11" ||
		gotQuery["nationCode"] != "86" || gotQuery["opCode"] == "" {
		t.Errorf("unexpected challenge query: %v", gotQuery)
	}
}

func TestCallDegradations(t *testing.T) {
	cases := []struct {
		name      string
		handler   http.HandlerFunc
		transport bool
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			true,
		},
		{
			"empty body",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			true,
		},
		{
			"malformed JSON",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>gateway error</html>")) },
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			_, err := client.QueryCompleted("token", 1, 10)
			if err == nil {
				t.Fatal("expected a typed error")
			}
			var te *interfaces.TransportError
			var pe *interfaces.ParseError
			switch {
			case tc.transport && !errors.As(err, &te):
				t.Errorf("expected TransportError, got %T: %v", err, err)
			case !tc.transport && !errors.As(err, &pe):
				t.Errorf("expected ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoginAuthorizationHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "session-token-1")
		w.Write([]byte(`{"success":true}`))
	})
	res, err := client.Login("13800138000", "4321", "c2lnbg==")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Authorization != "session-token-1" {
		t.Errorf("expected token from response header, got %q", res.Authorization)
	}
}

func TestLoginMissingAuthorizationHeaderIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"verify failed"}`))
	})
	res, err := client.Login("13800138000", "0000", "c2lnbg==")
	if err != nil {
		t.Fatalf("Login must tolerate a missing Authorization header: %v", err)
	}
	if res.Authorization != "" {
		t.Errorf("expected empty token, got %q", res.Authorization)
	}
}

func TestSendCodeSignSurvivesURLEncoding(t *testing.T) {
	// Base64 signs contain + and =; the query builder must escape them so
	// the vendor sees the exact sign value.
	const sign = "ab+cd/ef=="
	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("sign")
		w.Write([]byte(`{"success":true}`))
	})
	if _, err := client.SendCode("13800138000", "", "", sign); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if got != sign {
		t.Errorf("sign mangled in transit: got %q want %q", got, sign)
	}
}

func TestQueryCompletedSendsForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("form parse failed: %v", err)
		}
		if r.PostForm.Get("expressStatus") != "2" ||
			r.PostForm.Get("pageNo") != "2" || r.PostForm.Get("pageSize") != "5" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.Header.Get("Authorization") != "token" {
			t.Errorf("missing Authorization header")
		}
		w.Write([]byte(`{"success":true,"data":{"expressInfoDtos":[{"expressId":"SF1"}],"total":37}}`))
	})

	res, err := client.QueryCompleted("token", 2, 5)
	if err != nil {
		t.Fatalf("QueryCompleted failed: %v", err)
	}
	if !res.Success || res.Data == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Data.Total != 37 || len(res.Data.ExpressInfoDtos) != 1 {
		t.Errorf("data not decoded: %+v", res.Data)
	}
}

func TestQueryCompletedNullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"login expired","data":null}`))
	})
	res, err := client.QueryCompleted("token", 1, 10)
	if err != nil {
		t.Fatalf("QueryCompleted failed: %v", err)
	}
	if res.Success || res.Data != nil {
		t.Errorf("expected unsuccessful envelope with nil data, got %+v", res)
	}
	if res.Message != "login expired" {
		t.Errorf("message lost: %q", res.Message)
	}
}

func TestQueryPendingParsesTree(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("channelCode") != "ANDROID_FC_APP" {
			t.Errorf("missing channelCode, got %q", r.URL.Query().Get("channelCode"))
		}
		w.Write([]byte(`{"success":true,"data":{"cabinets":[
			{"cabinetCode":"C1","address":"北门","boxes":[
				{"boxId":7,"location":"3排","packages":[{"expressId":"YT1","code":654321}]}
			]}
		]}}`))
	})
	res, err := client.QueryPending("token")
	if err != nil {
		t.Fatalf("QueryPending failed: %v", err)
	}
	if res.Data == nil || len(res.Data.Cabinets) != 1 {
		t.Fatalf("tree not decoded: %+v", res)
	}
	box := res.Data.Cabinets[0].Boxes[0]
	if box.BoxID.String() != "7" {
		t.Errorf("numeric boxId must decode, got %q", box.BoxID)
	}
	if box.Packages[0].Code.String() != "654321" {
		t.Errorf("numeric code must decode, got %q", box.Packages[0].Code)
	}
}

func TestOpenBoxSendsTemplate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		for _, want := range []string{`"channel":"APP-ANDRIOD"`, `"pickType":"ANDROID_PICK_MOBILE_APP"`, `"localPopupTimeout":120`} {
			if !strings.Contains(string(body), want) {
				t.Errorf("body missing %s", want)
			}
		}
		w.Write([]byte(`{"success":true,"data":{"opened":true}}`))
	})

	res, err := client.OpenBox("token", testOpenBoxRequest())
	if err != nil {
		t.Fatalf("OpenBox failed: %v", err)
	}
	if !res.Success {
		t.Errorf("unexpected result: %+v", res)
	}
}

func testOpenBoxRequest() api.OpenBoxRequest {
	return api.OpenBoxRequest{
		CabinetCode:    "CAB-001",
		BoxID:          "42",
		ExpressID:      "SF123",
		ClientMobile:   "13800138000",
		StaffMobile:    "13900139000",
		CompanyLogoURL: "https://example.com/logo.png",
		CompanyName:    "顺丰速运",
		ExpressType:    1,
		PostID:         "post-1",
		Code:           "8888",
		BoxGlobalRow:   "3",
		Address:        "小区南门",
	}
}
