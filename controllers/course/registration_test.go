package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"prepo/config"
	"prepo/database"
	"prepo/models"
	"prepo/routers/courseRoutes"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSink = "0x0BC8dCb2c6F6AA1dFD236c985241dad86C6593DF"

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

// fakeRPC serves eth_getTransactionByHash from a fixed result payload and
// points the global chain client at itself for the duration of the test
func fakeRPC(t *testing.T, result interface{}) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  result,
		})
	}))
	t.Cleanup(server.Close)

	previous := utils.Chain
	utils.Chain = utils.NewChainClient(server.URL, testSink)
	t.Cleanup(func() { utils.Chain = previous })
}

func seedCourse(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Course{
		Code: code, Title: "Intro", Fee: 1, MentorAddress: "0xmentor",
	}).Error)
}

func TestRequestRegister(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")

	resp, _ := doJSON(t, app, http.MethodPost, "/courses/C1/request-register", fiber.Map{
		"userAddress": "0xAAA", "amountPaid": 9.5, "txHash": "0xabc",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reg models.CourseRegistration
	require.NoError(t, db.Where("course_code = ?", "C1").First(&reg).Error)
	assert.Equal(t, "0xaaa", reg.UserAddress)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	assert.Equal(t, 9.5, reg.AmountDeclared)

	// Same pair again, regardless of address casing
	resp, _ = doJSON(t, app, http.MethodPost, "/courses/C1/request-register", fiber.Map{
		"userAddress": "0xaAa", "amountPaid": 9.5, "txHash": "0xdef",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRequestRegisterValidation(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")

	resp, _ := doJSON(t, app, http.MethodPost, "/courses/C1/request-register", fiber.Map{
		"amountPaid": 9.5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/courses/NOPE1/request-register", fiber.Map{
		"userAddress": "0xaaa", "amountPaid": 9.5,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRegistrationStatus(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")

	resp, _ := doJSON(t, app, http.MethodGet, "/courses/C1/status", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown pair is not an error, the client polls this
	resp, envelope := doJSON(t, app, http.MethodGet, "/courses/C1/status?address=0xaaa", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", string(envelope.Data))

	require.NoError(t, db.Create(&models.CourseRegistration{
		CourseCode: "C1", UserAddress: "0xaaa", AmountPaid: 10,
		Status: models.RegistrationStatusPending,
	}).Error)

	// Query address is normalized before lookup
	resp, envelope = doJSON(t, app, http.MethodGet, "/courses/C1/status?address=0xAAA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reg models.CourseRegistration
	require.NoError(t, json.Unmarshal(envelope.Data, &reg))
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
}

func TestVerifyEnrollment(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")

	require.NoError(t, db.Create(&models.CourseRegistration{
		CourseCode: "C1", UserAddress: "0xaaa", AmountDeclared: 9.5, AmountPaid: 9.5,
		TxHash: "0xold", Status: models.RegistrationStatusPending,
	}).Error)

	fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xAAA",
		"to":          testSink,
		"value":       "0xde0b6b3a7640000", // 1.0
		"blockNumber": "0x10",
	})

	resp, envelope := doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{"txHash": "0xtx1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Paid       float64 `json:"paid"`
		RecordedTx string  `json:"recordedTx"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, 1.0, data.Paid)
	assert.Equal(t, "0xtx1", data.RecordedTx)

	// Chain value wins over the declared amount
	var reg models.CourseRegistration
	require.NoError(t, db.Where("course_code = ? AND user_address = ?", "C1", "0xaaa").First(&reg).Error)
	assert.Equal(t, models.RegistrationStatusConfirmed, reg.Status)
	assert.Equal(t, 1.0, reg.AmountPaid)
	assert.Equal(t, "0xtx1", reg.TxHash)
}

func TestListRegistrations(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")
	require.NoError(t, db.Create(&models.Course{
		Code: "C2", Title: "Other", Fee: 1, MentorAddress: "0xother",
	}).Error)

	require.NoError(t, db.Create(&models.CourseRegistration{
		CourseCode: "C1", UserAddress: "0xaaa", AmountPaid: 1,
		TxHash: "0xp1", Status: models.RegistrationStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.CourseRegistration{
		CourseCode: "C1", UserAddress: "0xbbb", AmountPaid: 1,
		TxHash: "0xp2", Status: models.RegistrationStatusConfirmed,
	}).Error)
	require.NoError(t, db.Create(&models.CourseRegistration{
		CourseCode: "C2", UserAddress: "0xccc", AmountPaid: 1,
		TxHash: "0xp3", Status: models.RegistrationStatusPending,
	}).Error)

	resp, _ := doJSON(t, app, http.MethodGet, "/courses/registrations", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "mentor is required")

	// Mentor query is normalized before lookup; only their courses show
	resp, envelope := doJSON(t, app, http.MethodGet, "/courses/registrations?mentor=0xMENTOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var regs []models.CourseRegistration
	require.NoError(t, json.Unmarshal(envelope.Data, &regs))
	require.Len(t, regs, 2)
	for _, reg := range regs {
		assert.Equal(t, "C1", reg.CourseCode)
	}

	resp, envelope = doJSON(t, app, http.MethodGet, "/courses/registrations?mentor=0xmentor&status=confirmed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "0xbbb", regs[0].UserAddress)

	resp, envelope = doJSON(t, app, http.MethodGet, "/courses/registrations?mentor=0xnobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &regs))
	assert.Empty(t, regs)
}

func TestVerifyEnrollmentUnderpaid(t *testing.T) {
	app, db := setupApp(t)
	require.NoError(t, db.Create(&models.Course{
		Code: "C9", Title: "Premium", Fee: 2, MentorAddress: "0xmentor",
	}).Error)

	fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xaaa",
		"to":          testSink,
		"value":       "0xde0b6b3a7640000", // 1.0, below the 2.0 fee
		"blockNumber": "0x10",
	})

	resp, _ := doJSON(t, app, http.MethodPost, "/courses/C9/verify", fiber.Map{"txHash": "0xtx1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&models.CourseRegistration{}).Where("course_code = ?", "C9").Count(&count)
	assert.Zero(t, count, "underpaid transactions must not create registrations")
}

func TestVerifyEnrollmentFailures(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")

	resp, _ := doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fakeRPC(t, nil)
	resp, _ = doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{"txHash": "0xmissing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx2",
		"from":        "0xaaa",
		"to":          "0x1111111111111111111111111111111111111111",
		"value":       "0x1",
		"blockNumber": "0x10",
	})
	resp, _ = doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{"txHash": "0xtx2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Mined nowhere yet
	fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx3",
		"from":        "0xaaa",
		"to":          testSink,
		"value":       "0xde0b6b3a7640000",
		"blockNumber": nil,
	})
	resp, _ = doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{"txHash": "0xtx3"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyEnrollmentReplayAcrossCourses(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, "C1")
	require.NoError(t, db.Create(&models.Course{
		Code: "C2", Title: "Other", Fee: 1, MentorAddress: "0xmentor",
	}).Error)

	fakeRPC(t, map[string]interface{}{
		"hash":        "0xtx1",
		"from":        "0xaaa",
		"to":          testSink,
		"value":       "0xde0b6b3a7640000",
		"blockNumber": "0x10",
	})

	resp, _ := doJSON(t, app, http.MethodPost, "/courses/C1/verify", fiber.Map{"txHash": "0xtx1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The same payment cannot buy a second course
	resp, _ = doJSON(t, app, http.MethodPost, "/courses/C2/verify", fiber.Map{"txHash": "0xtx1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
