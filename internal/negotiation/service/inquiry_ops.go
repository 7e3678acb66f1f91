package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateInquiryReq 买家发起询价
type CreateInquiryReq struct {
	ProductID   string           `json:"product_id"`
	SupplierID  string           `json:"supplier_id"`
	Quantity    int              `json:"quantity"`
	TargetPrice *decimal.Decimal `json:"target_price"`
	Message     string           `json:"message"`
}

// SubmitQuotationReq 供应商报价；SupersedesID 不为空时替换该询价下的旧报价
type SubmitQuotationReq struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	MOQ          int             `json:"moq"`
	LeadTime     string          `json:"lead_time"`
	PaymentTerms string          `json:"payment_terms"`
	ValidUntil   time.Time       `json:"valid_until"`
	Notes        string          `json:"notes"`
	SupersedesID string          `json:"supersedes_id"`
}

// CreateInquiry 创建询价
func (s *NegotiationService) CreateInquiry(ctx context.Context, req CreateInquiryReq, actor Actor) (*entity.Inquiry, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, validationError("product_id is required")
	}
	if strings.TrimSpace(req.SupplierID) == "" {
		return nil, validationError("supplier_id is required")
	}
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be greater than 0")
	}
	if req.TargetPrice != nil && req.TargetPrice.IsNegative() {
		return nil, validationError("target price must not be negative")
	}

	now := s.clock()
	inquiry := &entity.Inquiry{
		ID:          uuid.New().String()[:32],
		BuyerID:     actor.ID,
		ProductID:   strings.TrimSpace(req.ProductID),
		SupplierID:  strings.TrimSpace(req.SupplierID),
		Quantity:    req.Quantity,
		TargetPrice: req.TargetPrice,
		Message:     req.Message,
		Status:      entity.InquiryStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Inquiry.Create(ctx, inquiry); err != nil {
		return nil, s.fail("create inquiry", "", err)
	}

	ev := newEvent(notify.EventInquiryCreated, inquiry, nil, actor, now)
	ev.ToStatus = inquiry.Status
	s.emit(ctx, []notify.Event{ev})
	return inquiry, nil
}

// GetInquiry 获取询价详情（含报价，报价已应用惰性过期）
func (s *NegotiationService) GetInquiry(ctx context.Context, id string) (*entity.Inquiry, error) {
	inquiry, err := s.repos.Inquiry.FindWithQuotations(ctx, id)
	if err != nil {
		return nil, lookupError("inquiry", id, err)
	}
	now := s.clock()
	for i := range inquiry.Quotations {
		inquiry.Quotations[i].ApplyExpiry(now)
	}
	return inquiry, nil
}

// ListInquiries 询价列表
func (s *NegotiationService) ListInquiries(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Inquiry, int64, error) {
	items, total, err := s.repos.Inquiry.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, s.fail("list inquiries", "", err)
	}
	return items, total, nil
}

// SubmitQuotation 供应商针对询价提交报价
func (s *NegotiationService) SubmitQuotation(ctx context.Context, inquiryID string, req SubmitQuotationReq, actor Actor) (*entity.Quotation, error) {
	now := s.clock()
	if !req.PricePerUnit.IsPositive() {
		return nil, validationError("price per unit must be greater than 0")
	}
	if req.MOQ <= 0 {
		return nil, validationError("moq must be greater than 0")
	}
	if req.ValidUntil.IsZero() || !req.ValidUntil.After(now) {
		return nil, validationError("valid_until must be in the future")
	}

	var (
		quotation *entity.Quotation
		events    []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		inquiry, err := s.lockInquiry(ctx, repos, inquiryID)
		if err != nil {
			return err
		}
		if !isParty(inquiry, actor, partySupplier) {
			return fmt.Errorf("inquiry %s %w", inquiry.ID, ErrNotFound)
		}
		if !inquiry.IsOpen() {
			return invalidTransition("inquiry %s is closed", inquiry.ID)
		}

		var old *entity.Quotation
		if req.SupersedesID != "" {
			if old, err = s.loadQuotation(ctx, repos, req.SupersedesID); err != nil {
				return err
			}
			if old.InquiryID != inquiry.ID {
				return validationError("quotation %s does not belong to inquiry %s", old.ID, inquiry.ID)
			}
			if err := checkOpen(old, now); err != nil {
				return err
			}
		}

		quotation = &entity.Quotation{
			ID:           uuid.New().String()[:32],
			InquiryID:    inquiry.ID,
			SupplierID:   inquiry.SupplierID,
			PricePerUnit: req.PricePerUnit,
			MOQ:          req.MOQ,
			TotalPrice:   entity.ComputeTotal(req.PricePerUnit, req.MOQ),
			LeadTime:     req.LeadTime,
			PaymentTerms: req.PaymentTerms,
			ValidUntil:   req.ValidUntil.UTC(),
			Status:       entity.QuotationStatusPending,
			Notes:        req.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Quotation.Create(ctx, quotation); err != nil {
			return err
		}

		if _, err := repos.Inquiry.Advance(ctx, inquiry.ID, entity.InquiryStatusReplied, now); err != nil {
			return err
		}

		submitted := newEvent(notify.EventQuotationSubmitted, inquiry, quotation, actor, now)
		submitted.ToStatus = quotation.Status
		submitted.Content = fmt.Sprintf("%s x %d = %s",
			quotation.PricePerUnit.String(), quotation.MOQ, quotation.TotalPrice.StringFixed(2))
		events = append(events, submitted)

		if old == nil {
			return nil
		}

		n, err := repos.Quotation.Transition(ctx, old.ID, []string{old.Status}, entity.QuotationStatusRejected, now,
			map[string]interface{}{
				"reject_reason": entity.RejectReasonSuperseded,
				"superseded_by": quotation.ID,
			})
		if err != nil {
			return err
		}
		if n == 0 {
			return s.conflict(ctx, repos, old.ID, now)
		}
		if err := repos.CounterOffer.ResolveOpen(ctx, old.ID, now); err != nil {
			return err
		}
		events = append(events, rejectionEvents(inquiry, []entity.Quotation{*old}, entity.RejectReasonSuperseded, actor, now)...)
		return nil
	})
	if err != nil {
		return nil, s.fail("submit quotation", inquiryID, err)
	}

	s.logger.Info("quotation submitted",
		zap.String("inquiry_id", inquiryID),
		zap.String("quotation_id", quotation.ID),
		zap.String("supersedes", req.SupersedesID),
		zap.String("actor_id", actor.ID))
	s.emit(ctx, events)
	return quotation, nil
}

// CloseInquiry 买家放弃询价：询价关闭，仍有效的报价全部拒绝
func (s *NegotiationService) CloseInquiry(ctx context.Context, inquiryID string, actor Actor) (*entity.Inquiry, error) {
	now := s.clock()
	var (
		result *entity.Inquiry
		events []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		inquiry, err := s.lockInquiry(ctx, repos, inquiryID)
		if err != nil {
			return err
		}
		if !isParty(inquiry, actor, partyBuyer) {
			return fmt.Errorf("inquiry %s %w", inquiry.ID, ErrNotFound)
		}
		if !inquiry.IsOpen() {
			return invalidTransition("inquiry %s is already closed", inquiry.ID)
		}

		n, err := repos.Inquiry.Close(ctx, inquiry.ID, entity.InquiryCloseAbandoned, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return invalidTransition("inquiry %s is already closed", inquiry.ID)
		}

		rejected, err := repos.Quotation.RejectOpen(ctx, inquiry.ID, "", entity.RejectReasonInquiryClosed, now)
		if err != nil {
			return err
		}
		for i := range rejected {
			if err := repos.CounterOffer.ResolveOpen(ctx, rejected[i].ID, now); err != nil {
				return err
			}
		}

		closed := newEvent(notify.EventInquiryClosed, inquiry, nil, actor, now)
		closed.FromStatus, closed.ToStatus = inquiry.Status, entity.InquiryStatusClosed
		closed.Content = entity.InquiryCloseAbandoned
		events = append(events, closed)
		events = append(events, rejectionEvents(inquiry, rejected, entity.RejectReasonInquiryClosed, actor, now)...)

		result, err = s.loadInquiry(ctx, repos, inquiry.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("close inquiry", inquiryID, err)
	}

	s.logger.Info("inquiry closed",
		zap.String("inquiry_id", inquiryID),
		zap.Int("quotations_rejected", len(events)-1),
		zap.String("actor_id", actor.ID))
	s.emit(ctx, events)
	return result, nil
}
