package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/swapvault/escrow-engine/internal/api/dto"
	"github.com/swapvault/escrow-engine/internal/core"
	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/middleware"
)

type HTTPServer struct {
	Eng *core.Engine
}

func NewHTTPServer(eng *core.Engine) *HTTPServer {
	return &HTTPServer{Eng: eng}
}

func (s *HTTPServer) Run(addr string, rateLimit time.Duration) error {
	return s.Router(rateLimit).Run(addr)
}

// Router builds the gin engine; split out so tests can drive it with
// httptest.
func (s *HTTPServer) Router(rateLimit time.Duration) *gin.Engine {
	r := gin.Default()

	if rateLimit > 0 {
		rl := middleware.NewRateLimiter(rateLimit)
		r.Use(rl.Middleware())
	}

	r.POST("/orders", s.makeOrder)
	r.POST("/orders/cancel", s.cancelOrder)
	r.POST("/orders/taking", s.takingOrder)
	r.POST("/orders/take", s.takeOrder)
	r.POST("/orders/recover", s.recoverOrder)
	r.GET("/orders/:maker/:nonce", s.getOrder)
	r.GET("/orders", s.listOrders)
	r.GET("/status", s.getStatus)

	return r
}

func (s *HTTPServer) makeOrder(c *gin.Context) {
	var req dto.MakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := parseAddress(c, req.Caller)
	if !ok {
		return
	}
	var taker common.Address
	if req.Taker != "" {
		if taker, ok = parseAddress(c, req.Taker); !ok {
			return
		}
	}
	maker, err := convertBundle(req.MakerDetails)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	takerDetails, err := convertBundle(req.TakerDetails)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o := &domain.Order{
		Taker:        taker,
		Nonce:        req.Nonce,
		Expiration:   req.Expiration,
		MakerDetails: maker,
		TakerDetails: takerDetails,
	}
	if err := s.Eng.Make(c.Request.Context(), caller, o); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{
		Maker: caller.Hex(),
		Nonce: req.Nonce,
		State: string(domain.Made),
	})
}

func (s *HTTPServer) cancelOrder(c *gin.Context) {
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := parseAddress(c, req.Caller)
	if !ok {
		return
	}
	maker, ok := parseAddress(c, req.Maker)
	if !ok {
		return
	}
	if err := s.Eng.Cancel(c.Request.Context(), caller, maker, req.Nonce); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{
		Maker: maker.Hex(),
		Nonce: req.Nonce,
		State: string(domain.Cancelled),
	})
}

func (s *HTTPServer) takingOrder(c *gin.Context) {
	var req dto.TakingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := parseAddress(c, req.Caller)
	if !ok {
		return
	}
	maker, ok := parseAddress(c, req.Maker)
	if !ok {
		return
	}
	if err := s.Eng.Taking(c.Request.Context(), caller, maker, req.Nonce, req.Value); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{
		Maker: maker.Hex(),
		Nonce: req.Nonce,
		State: string(domain.Taking),
	})
}

func (s *HTTPServer) takeOrder(c *gin.Context) {
	var req dto.TakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := parseAddress(c, req.Caller)
	if !ok {
		return
	}
	maker, ok := parseAddress(c, req.Maker)
	if !ok {
		return
	}
	if err := s.Eng.Take(c.Request.Context(), caller, maker, req.Nonce); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{
		Maker: maker.Hex(),
		Nonce: req.Nonce,
		State: string(domain.Taken),
	})
}

func (s *HTTPServer) recoverOrder(c *gin.Context) {
	var req dto.RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := parseAddress(c, req.Caller)
	if !ok {
		return
	}
	maker, ok := parseAddress(c, req.Maker)
	if !ok {
		return
	}
	if err := s.Eng.Recover(c.Request.Context(), caller, maker, req.Nonce); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{
		Maker: maker.Hex(),
		Nonce: req.Nonce,
		State: string(domain.Taking),
	})
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	maker, ok := parseAddress(c, c.Param("maker"))
	if !ok {
		return
	}
	nonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}
	o, err := s.Eng.Details(c.Request.Context(), maker, nonce)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertOrder(o))
}

func (s *HTTPServer) listOrders(c *gin.Context) {
	maker, ok := parseAddress(c, c.Query("maker"))
	if !ok {
		return
	}
	orders, err := s.Eng.OrdersByMaker(c.Request.Context(), maker)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		res.Orders = append(res.Orders, convertOrder(o))
	}
	c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Open:  s.Eng.Open(),
		Owner: s.Eng.Owner().Hex(),
	})
}

func parseAddress(c *gin.Context, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address: " + raw})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func convertBundle(b dto.Bundle) (domain.AssetBundle, error) {
	out := domain.AssetBundle{
		ERC20: domain.ERC20Details{
			Amounts: b.ERC20.Amounts,
		},
		ERC721: domain.ERC721Details{
			IDs: b.ERC721.IDs,
		},
		ERC1155: domain.ERC1155Details{
			IDs:     b.ERC1155.IDs,
			Amounts: b.ERC1155.Amounts,
		},
		Value: b.Value,
	}
	for _, raw := range b.ERC20.TokenAddresses {
		if !common.IsHexAddress(raw) {
			return domain.AssetBundle{}, errors.New("invalid erc20 token address: " + raw)
		}
		out.ERC20.TokenAddresses = append(out.ERC20.TokenAddresses, common.HexToAddress(raw))
	}
	if b.ERC721.TokenAddress != "" {
		if !common.IsHexAddress(b.ERC721.TokenAddress) {
			return domain.AssetBundle{}, errors.New("invalid erc721 token address: " + b.ERC721.TokenAddress)
		}
		out.ERC721.TokenAddress = common.HexToAddress(b.ERC721.TokenAddress)
	}
	if b.ERC1155.TokenAddress != "" {
		if !common.IsHexAddress(b.ERC1155.TokenAddress) {
			return domain.AssetBundle{}, errors.New("invalid erc1155 token address: " + b.ERC1155.TokenAddress)
		}
		out.ERC1155.TokenAddress = common.HexToAddress(b.ERC1155.TokenAddress)
	}
	return out, nil
}

func convertBundleOut(b domain.AssetBundle) dto.Bundle {
	out := dto.Bundle{
		ERC20: dto.ERC20Details{
			Amounts: b.ERC20.Amounts,
		},
		ERC721: dto.ERC721Details{
			IDs: b.ERC721.IDs,
		},
		ERC1155: dto.ERC1155Details{
			IDs:     b.ERC1155.IDs,
			Amounts: b.ERC1155.Amounts,
		},
		Value: b.Value,
	}
	for _, addr := range b.ERC20.TokenAddresses {
		out.ERC20.TokenAddresses = append(out.ERC20.TokenAddresses, addr.Hex())
	}
	zero := common.Address{}
	if b.ERC721.TokenAddress != zero {
		out.ERC721.TokenAddress = b.ERC721.TokenAddress.Hex()
	}
	if b.ERC1155.TokenAddress != zero {
		out.ERC1155.TokenAddress = b.ERC1155.TokenAddress.Hex()
	}
	return out
}

func convertOrder(o *domain.Order) dto.OrderResponse {
	res := dto.OrderResponse{
		Maker:        o.Maker.Hex(),
		Taker:        o.Taker.Hex(),
		Nonce:        o.Nonce,
		Expiration:   o.Expiration,
		State:        string(o.State),
		MakerDetails: convertBundleOut(o.MakerDetails),
		TakerDetails: convertBundleOut(o.TakerDetails),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	zero := common.Address{}
	if o.Recovery.Maker != zero {
		res.MakerRecovered = o.Recovery.Maker.Hex()
	}
	if o.Recovery.Taker != zero {
		res.TakerRecovered = o.Recovery.Taker.Hex()
	}
	return res
}

func abortWithDomainError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedBundle),
		errors.Is(err, domain.ErrUnknownToken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotMaker),
		errors.Is(err, domain.ErrNotTaker),
		errors.Is(err, domain.ErrNotParty),
		errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSlotOccupied),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrOrderExpired),
		errors.Is(err, domain.ErrNotExpired),
		errors.Is(err, domain.ErrAlreadyRecovered),
		errors.Is(err, domain.ErrValueMismatch),
		errors.Is(err, domain.ErrNotOwnerNorApproved),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientAllowance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
