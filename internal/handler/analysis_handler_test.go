package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/handler"
	"saltscope/internal/service"
	"saltscope/mocks"
)

func jsonRequest(method, url string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAnalysisHandler_Create_Success(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	userID := uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateAnalysisInput) bool {
		return input.TenantID == tenantID &&
			input.CreatedBy == userID &&
			input.Name == "FY24 Review" &&
			input.CutoffDate.Format("2006-01-02") == "2024-12-31"
	})).Return(&domain.Analysis{ID: uuid.New(), TenantID: tenantID, Name: "FY24 Review"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses", gin.H{
		"name":          "FY24 Review",
		"business_name": "Widget Co",
		"cutoff_date":   "2024-12-31",
	})
	setAuthContext(c, tenantID, userID, "member")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_Create_MissingName(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses", gin.H{"business_name": "Widget Co"})
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_Create_BadCutoffDate(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses", gin.H{
		"name":          "FY24 Review",
		"business_name": "Widget Co",
		"cutoff_date":   "12/31/2024",
	})
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAnalysisHandler_Run_Accepted(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	analysisID := uuid.New()

	svc.On("Run", mock.Anything, tenantID, analysisID).
		Return(&domain.Analysis{ID: analysisID, Status: domain.AnalysisStatusRunning}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/run", nil)
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Run(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_Run_NoTransactions(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	analysisID := uuid.New()

	svc.On("Run", mock.Anything, tenantID, analysisID).Return(nil, domain.ErrNoTransactions)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/run", nil)
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Run(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_TRANSACTIONS", resp.Error.Code)
}

func TestAnalysisHandler_Run_AlreadyRunning(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	analysisID := uuid.New()

	svc.On("Run", mock.Anything, tenantID, analysisID).Return(nil, domain.ErrAnalysisRunning)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/run", nil)
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Run(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnalysisHandler_Import_Success(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	analysisID := uuid.New()
	fileID := uuid.New()

	svc.On("ImportFile", mock.Anything, service.ImportFileInput{
		TenantID:   tenantID,
		AnalysisID: analysisID,
		FileID:     fileID,
	}).Return(&service.ImportSummary{Imported: 120}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/import", gin.H{
		"file_id": fileID.String(),
	})
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Import(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_Import_MissingFileID(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	analysisID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/import", gin.H{})
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ImportFile", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_AddPhysicalNexus_BadDate(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	analysisID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/physical-nexus", gin.H{
		"jurisdiction_code": "CA",
		"established_date":  "July 2021",
	})
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.AddPhysicalNexus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "AddPhysicalNexus", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_Update_Running(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	h := handler.NewAnalysisHandler(svc)

	tenantID := uuid.New()
	analysisID := uuid.New()

	svc.On("Update", mock.Anything, tenantID, analysisID, mock.AnythingOfType("service.UpdateAnalysisInput")).
		Return(nil, domain.ErrAnalysisRunning)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPut, "/api/v1/analyses/"+analysisID.String(), gin.H{"name": "Renamed"})
	c.Params = gin.Params{{Key: "id", Value: analysisID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
