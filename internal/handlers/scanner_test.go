// internal/handlers/scanner_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nightpulse/backend/internal/services"
)

// stubChecker accepts each code once, mirroring the conditional check-in.
type stubChecker struct {
	used map[string]bool
}

func (s *stubChecker) ScanTicket(ctx context.Context, eventID uuid.UUID, code string) (*services.ScanOutcome, error) {
	if s.used[code] {
		return &services.ScanOutcome{Accepted: false, Reason: services.ScanReasonAlreadyUsed}, nil
	}
	s.used[code] = true
	return &services.ScanOutcome{Accepted: true}, nil
}

type ScannerHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	operatorID uuid.UUID
}

func (suite *ScannerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.operatorID = uuid.New()
	scanService := services.NewScanService(&stubChecker{used: make(map[string]bool)})
	handler := NewScannerHandler(scanService)

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set("user_id", suite.operatorID.String())
		c.Set("role", "promoter")
		c.Next()
	})

	scanner := suite.router.Group("/scanner")
	{
		scanner.POST("/sessions", handler.OpenSession)
		scanner.GET("/sessions/:id", handler.GetSession)
		scanner.POST("/sessions/:id/scan", handler.Scan)
		scanner.DELETE("/sessions/:id", handler.CloseSession)
	}
}

func (suite *ScannerHandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ScannerHandlerTestSuite) openSession() uuid.UUID {
	w := suite.request("POST", "/scanner/sessions", map[string]interface{}{
		"event_id":    uuid.New().String(),
		"device_name": "main-door",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(suite.T(), resp.Success)
	return resp.Data.ID
}

func (suite *ScannerHandlerTestSuite) TestOpenAndCloseSession() {
	sessionID := suite.openSession()

	w := suite.request("GET", fmt.Sprintf("/scanner/sessions/%s", sessionID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("DELETE", fmt.Sprintf("/scanner/sessions/%s", sessionID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("GET", fmt.Sprintf("/scanner/sessions/%s", sessionID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ScannerHandlerTestSuite) TestDoubleScanIsRejected() {
	sessionID := suite.openSession()
	scanBody := map[string]interface{}{"code": "np_testcode"}

	w := suite.request("POST", fmt.Sprintf("/scanner/sessions/%s/scan", sessionID), scanBody)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var first struct {
		Data struct {
			Accepted bool `json:"accepted"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(suite.T(), first.Data.Accepted)

	w = suite.request("POST", fmt.Sprintf("/scanner/sessions/%s/scan", sessionID), scanBody)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var second struct {
		Data struct {
			Accepted bool   `json:"accepted"`
			Reason   string `json:"reason"`
		} `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(suite.T(), second.Data.Accepted)
	assert.NotEmpty(suite.T(), second.Data.Reason)
}

func (suite *ScannerHandlerTestSuite) TestUnknownSession() {
	w := suite.request("POST", fmt.Sprintf("/scanner/sessions/%s/scan", uuid.New()), map[string]interface{}{"code": "np_x"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestScannerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ScannerHandlerTestSuite))
}
