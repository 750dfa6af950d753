package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/transaction"
)

type TransactionHandler struct {
	createUC   *transaction.CreateTransactionUseCase
	getUC      *transaction.GetTransactionUseCase
	listUC     *transaction.ListTransactionsUseCase
	payUC      *transaction.ProcessPaymentUseCase
	deliveryUC *transaction.UpdateDeliveryStatusUseCase
}

func NewTransactionHandler(
	createUC *transaction.CreateTransactionUseCase,
	getUC *transaction.GetTransactionUseCase,
	listUC *transaction.ListTransactionsUseCase,
	payUC *transaction.ProcessPaymentUseCase,
	deliveryUC *transaction.UpdateDeliveryStatusUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		createUC:   createUC,
		getUC:      getUC,
		listUC:     listUC,
		payUC:      payUC,
		deliveryUC: deliveryUC,
	}
}

// CreateTransaction отвечает 201 для новой сделки и 200, если сделка по ставке уже есть.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	bidID, err := uuid.Parse(req.BidID)
	if err != nil {
		response.BadRequest(c, "некорректный ID ставки")
		return
	}

	out, err := h.createUC.Execute(c.Request.Context(), transaction.CreateTransactionInput{
		BuyerID:       userID,
		BidID:         bidID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if out.Created {
		response.Created(c, dto.ToTransactionResponse(out.Transaction))
		return
	}
	response.Success(c, dto.ToTransactionResponse(out.Transaction))
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID сделки")
		return
	}

	tx, err := h.getUC.Execute(c.Request.Context(), userID, transactionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransactionResponse(tx))
}

// ListTransactions обрабатывает GET /transactions?role=buyer|farmer&payment_status=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	txs, err := h.listUC.Execute(c.Request.Context(), userID, c.Query("role"), c.Query("payment_status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransactionResponses(txs))
}

func (h *TransactionHandler) ProcessPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID сделки")
		return
	}

	// Тело необязательно: без него остаётся способ оплаты сделки.
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	tx, err := h.payUC.Execute(c.Request.Context(), transaction.ProcessPaymentInput{
		BuyerID:       userID,
		TransactionID: transactionID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransactionResponse(tx))
}

func (h *TransactionHandler) UpdateDelivery(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID сделки")
		return
	}

	var req dto.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	tx, err := h.deliveryUC.Execute(c.Request.Context(), transaction.UpdateDeliveryInput{
		OwnerID:       userID,
		TransactionID: transactionID,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransactionResponse(tx))
}
