package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapvault/escrow-engine/internal/adapter/in_memory"
	"github.com/swapvault/escrow-engine/internal/api/dto"
	"github.com/swapvault/escrow-engine/internal/asset"
	"github.com/swapvault/escrow-engine/internal/core"
	"github.com/swapvault/escrow-engine/internal/custody"
)

var (
	makerHex  = "0x1000000000000000000000000000000000000001"
	takerHex  = "0x2000000000000000000000000000000000000002"
	escrowHex = "0x00000000000000000000000000000000000E5c00"
	tokenHex  = "0x4000000000000000000000000000000000000721"
)

func newTestServer(t *testing.T) (*gin.Engine, *asset.MemoryERC721) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := asset.NewMemoryRegistry()
	erc721 := asset.NewMemoryERC721()
	registry.RegisterERC721(common.HexToAddress(tokenHex), erc721)

	maker := common.HexToAddress(makerHex)
	escrow := common.HexToAddress(escrowHex)
	erc721.Mint(maker, 0)
	erc721.Approve(maker, escrow, 0)

	mover := custody.NewMover(registry, escrow)
	eng := core.NewEngine(maker, mover, in_memory.NewMemoryRepo(), in_memory.NewCache(), in_memory.NewBus(), logrus.NewEntry(logrus.New()))
	srv := NewHTTPServer(eng)
	return srv.Router(0), erc721
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func makeRequest() dto.MakeRequest {
	return dto.MakeRequest{
		Caller:     makerHex,
		Nonce:      0,
		Expiration: time.Now().Add(time.Hour),
		MakerDetails: dto.Bundle{
			ERC721: dto.ERC721Details{TokenAddress: tokenHex, IDs: []uint64{0}},
		},
		TakerDetails: dto.Bundle{
			Value: decimal.NewFromInt(100),
		},
	}
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Open)
	assert.Equal(t, common.HexToAddress(makerHex).Hex(), res.Owner)
}

func TestMakeThenGetOrder(t *testing.T) {
	r, _ := newTestServer(t)

	w := postJSON(t, r, "/orders", makeRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/orders/"+makerHex+"/0", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	require.Equal(t, http.StatusOK, get.Code)

	var res dto.OrderResponse
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &res))
	assert.Equal(t, "MADE", res.State)
	assert.Equal(t, []uint64{0}, res.MakerDetails.ERC721.IDs)
}

func TestMakeInvalidAddressRejected(t *testing.T) {
	r, _ := newTestServer(t)

	req := makeRequest()
	req.Caller = "not-an-address"
	w := postJSON(t, r, "/orders", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelByNonMakerForbidden(t *testing.T) {
	r, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, postJSON(t, r, "/orders", makeRequest()).Code)

	w := postJSON(t, r, "/orders/cancel", dto.CancelRequest{
		Caller: takerHex,
		Maker:  makerHex,
		Nonce:  0,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTakingValueMismatchConflict(t *testing.T) {
	r, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, postJSON(t, r, "/orders", makeRequest()).Code)

	w := postJSON(t, r, "/orders/taking", dto.TakingRequest{
		Caller: takerHex,
		Maker:  makerHex,
		Nonce:  0,
		Value:  decimal.NewFromInt(99),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetMissingOrderNotFound(t *testing.T) {
	r, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/orders/"+makerHex+"/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnapprovedDepositSurfacesConflict(t *testing.T) {
	r, erc721 := newTestServer(t)
	erc721.Mint(common.HexToAddress(makerHex), 1)

	req := makeRequest()
	req.MakerDetails.ERC721.IDs = []uint64{1}
	w := postJSON(t, r, "/orders", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
