package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 操作人角色
const (
	RoleBuyer    = "buyer"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
	RoleSystem   = "system"
)

// Actor 发起操作的用户
type Actor struct {
	ID   string
	Role string
}

// SystemActor 定时任务等系统操作
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// NegotiationService 询报价协商状态机，是询价/报价/订单状态的唯一写入方
type NegotiationService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	orders   *orderOrchestrator
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time

	expiryBatch int
}

func NewNegotiationService(
	db *gorm.DB,
	repos *repository.Repositories,
	notifier notify.Notifier,
	logger *zap.Logger,
) *NegotiationService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NegotiationService{
		db:       db,
		repos:    repos,
		orders:   &orderOrchestrator{},
		notifier: notifier,
		logger:   logger,
		now:      time.Now,

		expiryBatch: 500,
	}
}

// SetClock 替换时间源
func (s *NegotiationService) SetClock(now func() time.Time) {
	s.now = now
}

// SetExpiryBatch 每批清理的报价数量
func (s *NegotiationService) SetExpiryBatch(n int) {
	if n > 0 {
		s.expiryBatch = n
	}
}

func (s *NegotiationService) clock() time.Time {
	return s.now().UTC()
}

// Now 服务当前时间（UTC）
func (s *NegotiationService) Now() time.Time {
	return s.clock()
}

// SubmitCounterOfferReq 买家还价
type SubmitCounterOfferReq struct {
	ProposedQuantity int             `json:"proposed_quantity"`
	ProposedPrice    decimal.Decimal `json:"proposed_price"`
	Message          string          `json:"message"`
	Requirements     string          `json:"requirements"`
}

// GetQuotation 读取报价，已过有效期的报价按 expired 返回
func (s *NegotiationService) GetQuotation(ctx context.Context, quotationID string) (*entity.Quotation, error) {
	q, err := s.loadQuotation(ctx, s.repos, quotationID)
	if err != nil {
		return nil, err
	}
	q.ApplyExpiry(s.clock())
	return q, nil
}

// ListQuotations 查询询价下的报价，status 过滤基于惰性过期后的状态
func (s *NegotiationService) ListQuotations(ctx context.Context, inquiryID, status string) ([]entity.Quotation, error) {
	if _, err := s.loadInquiry(ctx, s.repos, inquiryID); err != nil {
		return nil, err
	}
	items, err := s.repos.Quotation.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, storageError("list quotations", err)
	}

	now := s.clock()
	result := make([]entity.Quotation, 0, len(items))
	for i := range items {
		items[i].ApplyExpiry(now)
		if status == "" || items[i].Status == status {
			result = append(result, items[i])
		}
	}
	return result, nil
}

// ListCounterOffers 查询报价的还价记录
func (s *NegotiationService) ListCounterOffers(ctx context.Context, quotationID string) ([]entity.CounterOffer, error) {
	if _, err := s.loadQuotation(ctx, s.repos, quotationID); err != nil {
		return nil, err
	}
	items, err := s.repos.CounterOffer.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, storageError("list counter-offers", err)
	}
	return items, nil
}

// AcceptQuotation 买家接受报价：报价置为 accepted，关闭询价，生成唯一订单。
// 对已接受的报价重复调用返回已有订单。
func (s *NegotiationService) AcceptQuotation(ctx context.Context, quotationID, shippingAddress string, actor Actor) (*entity.Order, error) {
	address := strings.TrimSpace(shippingAddress)
	if address == "" {
		return nil, validationError("shipping address is required")
	}

	now := s.clock()
	var (
		order   *entity.Order
		created bool
		events  []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		q, err := s.loadQuotation(ctx, repos, quotationID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, repos, q, actor, partyBuyer); err != nil {
			return err
		}
		if q.Status == entity.QuotationStatusAccepted {
			order, err = s.existingOrder(ctx, repos, q.ID)
			return err
		}
		if isExpired(q, now) {
			return expiredError(q)
		}

		// 先锁询价，再读最新的报价状态
		inquiry, err := s.lockInquiry(ctx, repos, q.InquiryID)
		if err != nil {
			return err
		}
		if q, err = s.loadQuotation(ctx, repos, quotationID); err != nil {
			return err
		}
		if q.Status == entity.QuotationStatusAccepted {
			order, err = s.existingOrder(ctx, repos, q.ID)
			return err
		}
		if !inquiry.IsOpen() {
			if inquiry.CloseReason == entity.InquiryCloseAccepted {
				return fmt.Errorf("inquiry %s: %w", inquiry.ID, ErrAlreadyAccepted)
			}
			return invalidTransition("inquiry %s is closed", inquiry.ID)
		}
		if err := checkOpen(q, now); err != nil {
			return err
		}
		if !entity.CanTransition(q.Status, entity.QuotationStatusAccepted) {
			return invalidTransition("cannot accept a %s quotation", q.Status)
		}

		from := q.Status
		n, err := repos.Quotation.Transition(ctx, q.ID, []string{from}, entity.QuotationStatusAccepted, now, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.conflict(ctx, repos, q.ID, now)
		}

		closed, err := repos.Inquiry.Close(ctx, inquiry.ID, entity.InquiryCloseAccepted, now)
		if err != nil {
			return err
		}
		if closed == 0 {
			return fmt.Errorf("inquiry %s: %w", inquiry.ID, ErrAlreadyAccepted)
		}

		if err := repos.CounterOffer.ResolveOpen(ctx, q.ID, now); err != nil {
			return err
		}

		siblings, err := repos.Quotation.RejectOpen(ctx, inquiry.ID, q.ID, entity.RejectReasonSiblingAccepted, now)
		if err != nil {
			return err
		}
		for i := range siblings {
			if err := repos.CounterOffer.ResolveOpen(ctx, siblings[i].ID, now); err != nil {
				return err
			}
		}

		order, err = s.orders.createFromQuotation(ctx, repos, q, inquiry, address, now)
		if err != nil {
			return err
		}
		created = true

		accepted := newEvent(notify.EventQuotationAccepted, inquiry, q, actor, now)
		accepted.FromStatus, accepted.ToStatus = from, entity.QuotationStatusAccepted
		accepted.OrderID = order.ID

		orderCreated := newEvent(notify.EventOrderCreated, inquiry, q, actor, now)
		orderCreated.OrderID = order.ID
		orderCreated.ToStatus = order.Status
		orderCreated.Content = fmt.Sprintf("order %s total %s", order.OrderCode, order.TotalAmount.StringFixed(2))

		inquiryClosed := newEvent(notify.EventInquiryClosed, inquiry, q, actor, now)
		inquiryClosed.FromStatus, inquiryClosed.ToStatus = inquiry.Status, entity.InquiryStatusClosed
		inquiryClosed.Content = entity.InquiryCloseAccepted

		events = append(events, accepted, orderCreated, inquiryClosed)
		events = append(events, rejectionEvents(inquiry, siblings, entity.RejectReasonSiblingAccepted, actor, now)...)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.afterDuplicateOrder(ctx, quotationID, err)
		}
		return nil, s.fail("accept quotation", quotationID, err)
	}

	if created {
		s.logger.Info("quotation accepted",
			zap.String("quotation_id", quotationID),
			zap.String("order_id", order.ID),
			zap.String("order_code", order.OrderCode),
			zap.String("actor_id", actor.ID))
		s.emit(ctx, events)
	}
	return order, nil
}

// RejectQuotation 拒绝报价，询价保持原状态
func (s *NegotiationService) RejectQuotation(ctx context.Context, quotationID, reason string, actor Actor) (*entity.Quotation, error) {
	now := s.clock()
	var (
		result *entity.Quotation
		events []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		q, err := s.loadQuotation(ctx, repos, quotationID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, repos, q, actor, partyBuyer, partySupplier); err != nil {
			return err
		}
		if err := checkOpen(q, now); err != nil {
			return err
		}
		if !entity.CanTransition(q.Status, entity.QuotationStatusRejected) {
			return invalidTransition("cannot reject a %s quotation", q.Status)
		}

		from := q.Status
		n, err := repos.Quotation.Transition(ctx, q.ID, []string{from}, entity.QuotationStatusRejected, now,
			map[string]interface{}{"reject_reason": strings.TrimSpace(reason)})
		if err != nil {
			return err
		}
		if n == 0 {
			return s.conflict(ctx, repos, q.ID, now)
		}
		if err := repos.CounterOffer.ResolveOpen(ctx, q.ID, now); err != nil {
			return err
		}

		inquiry, err := s.loadInquiry(ctx, repos, q.InquiryID)
		if err != nil {
			return err
		}
		if result, err = s.loadQuotation(ctx, repos, q.ID); err != nil {
			return err
		}

		ev := newEvent(notify.EventQuotationRejected, inquiry, result, actor, now)
		ev.FromStatus, ev.ToStatus = from, entity.QuotationStatusRejected
		ev.Content = result.RejectReason
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, s.fail("reject quotation", quotationID, err)
	}

	s.logger.Info("quotation rejected",
		zap.String("quotation_id", quotationID),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", actor.Role))
	s.emit(ctx, events)
	return result, nil
}

// SubmitCounterOffer 买家还价，报价进入 negotiating
func (s *NegotiationService) SubmitCounterOffer(ctx context.Context, quotationID string, req SubmitCounterOfferReq, actor Actor) (*entity.CounterOffer, error) {
	if req.ProposedQuantity <= 0 {
		return nil, validationError("proposed quantity must be greater than 0")
	}
	if !req.ProposedPrice.IsPositive() {
		return nil, validationError("proposed price must be greater than 0")
	}

	now := s.clock()
	var (
		offer  *entity.CounterOffer
		events []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		q, err := s.loadQuotation(ctx, repos, quotationID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, repos, q, actor, partyBuyer); err != nil {
			return err
		}
		if err := checkOpen(q, now); err != nil {
			return err
		}

		inquiry, err := s.lockInquiry(ctx, repos, q.InquiryID)
		if err != nil {
			return err
		}
		if q, err = s.loadQuotation(ctx, repos, quotationID); err != nil {
			return err
		}
		if err := checkOpen(q, now); err != nil {
			return err
		}
		if q.Status != entity.QuotationStatusPending && q.Status != entity.QuotationStatusNegotiating {
			return invalidTransition("counter-offers are not accepted while the quotation is %s", q.Status)
		}

		offer = &entity.CounterOffer{
			ID:               uuid.New().String()[:32],
			QuotationID:      q.ID,
			ProposedQuantity: req.ProposedQuantity,
			ProposedPrice:    req.ProposedPrice,
			Message:          req.Message,
			Requirements:     req.Requirements,
			Status:           entity.CounterOfferStatusOpen,
			CreatedBy:        actor.ID,
			CreatedAt:        now,
		}
		if err := repos.CounterOffer.Create(ctx, offer); err != nil {
			return err
		}

		from := q.Status
		n, err := repos.Quotation.Transition(ctx, q.ID, []string{from}, entity.QuotationStatusNegotiating, now, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.conflict(ctx, repos, q.ID, now)
		}

		if _, err := repos.Inquiry.Advance(ctx, inquiry.ID, entity.InquiryStatusNegotiating, now); err != nil {
			return err
		}

		ev := newEvent(notify.EventCounterOfferSubmitted, inquiry, q, actor, now)
		ev.FromStatus, ev.ToStatus = from, entity.QuotationStatusNegotiating
		ev.Content = fmt.Sprintf("proposed %d @ %s", offer.ProposedQuantity, offer.ProposedPrice.String())
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, s.fail("submit counter-offer", quotationID, err)
	}

	s.logger.Info("counter-offer submitted",
		zap.String("quotation_id", quotationID),
		zap.String("counter_offer_id", offer.ID),
		zap.String("actor_id", actor.ID))
	s.emit(ctx, events)
	return offer, nil
}

// AcknowledgeCounterOffer 供应商确认收到还价但暂不调整条款
func (s *NegotiationService) AcknowledgeCounterOffer(ctx context.Context, quotationID string, actor Actor) (*entity.Quotation, error) {
	now := s.clock()
	var (
		result *entity.Quotation
		events []notify.Event
	)

	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		q, err := s.loadQuotation(ctx, repos, quotationID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, repos, q, actor, partySupplier); err != nil {
			return err
		}
		if err := checkOpen(q, now); err != nil {
			return err
		}
		if !entity.CanTransition(q.Status, entity.QuotationStatusCounterOffered) {
			return invalidTransition("cannot acknowledge a %s quotation", q.Status)
		}

		offers, err := repos.CounterOffer.ListByQuotation(ctx, q.ID)
		if err != nil {
			return err
		}
		if !hasOpenOffer(offers) {
			return invalidTransition("quotation %s has no open counter-offer", q.ID)
		}

		from := q.Status
		n, err := repos.Quotation.Transition(ctx, q.ID, []string{from}, entity.QuotationStatusCounterOffered, now, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.conflict(ctx, repos, q.ID, now)
		}

		inquiry, err := s.loadInquiry(ctx, repos, q.InquiryID)
		if err != nil {
			return err
		}
		if result, err = s.loadQuotation(ctx, repos, q.ID); err != nil {
			return err
		}

		ev := newEvent(notify.EventQuotationCounterOffered, inquiry, result, actor, now)
		ev.FromStatus, ev.ToStatus = from, entity.QuotationStatusCounterOffered
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, s.fail("acknowledge counter-offer", quotationID, err)
	}

	s.emit(ctx, events)
	return result, nil
}

// ExpireStaleQuotations 将有效期已过的未终结报价持久化为 expired，返回处理数量
func (s *NegotiationService) ExpireStaleQuotations(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	batch := s.expiryBatch

	inquiries := make(map[string]*entity.Inquiry)
	var count int64
	for {
		stale, err := s.repos.Quotation.FindStale(ctx, now, batch)
		if err != nil {
			return count, s.fail("find stale quotations", "", err)
		}
		if len(stale) == 0 {
			return count, nil
		}

		progressed := false
		for i := range stale {
			q := &stale[i]
			expired, err := s.expireOne(ctx, q, now)
			if err != nil {
				return count, s.fail("expire quotation", q.ID, err)
			}
			if !expired {
				continue
			}
			progressed = true
			count++

			inquiry, ok := inquiries[q.InquiryID]
			if !ok {
				inquiry, err = s.repos.Inquiry.FindByID(ctx, q.InquiryID)
				if err != nil {
					s.logger.Warn("expired quotation has no inquiry",
						zap.String("quotation_id", q.ID), zap.Error(err))
					inquiry = &entity.Inquiry{ID: q.InquiryID, SupplierID: q.SupplierID}
				}
				inquiries[q.InquiryID] = inquiry
			}
			ev := newEvent(notify.EventQuotationExpired, inquiry, q, SystemActor, now)
			ev.FromStatus, ev.ToStatus = q.Status, entity.QuotationStatusExpired
			s.emit(ctx, []notify.Event{ev})
		}

		if len(stale) < batch || !progressed {
			if count > 0 {
				s.logger.Info("stale quotations expired", zap.Int64("count", count))
			}
			return count, nil
		}
	}
}

func (s *NegotiationService) expireOne(ctx context.Context, q *entity.Quotation, now time.Time) (bool, error) {
	expired := false
	err := s.inTx(ctx, func(repos *repository.Repositories) error {
		n, err := repos.Quotation.Transition(ctx, q.ID, []string{q.Status}, entity.QuotationStatusExpired, now, nil)
		if err != nil || n == 0 {
			return err
		}
		expired = true
		return repos.CounterOffer.ResolveOpen(ctx, q.ID, now)
	})
	return expired, err
}

// ---- helpers ----

func (s *NegotiationService) inTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repos.WithTx(tx))
	})
}

func (s *NegotiationService) emit(ctx context.Context, events []notify.Event) {
	for _, ev := range events {
		s.notifier.Notify(ctx, ev)
	}
}

// fail 统一错误出口：未分类错误转为存储不可用并记录
func (s *NegotiationService) fail(op, id string, err error) error {
	err = storageError(op, err)
	if errors.Is(err, ErrStorageUnavailable) {
		s.logger.Error(op+" failed", zap.String("id", id), zap.Error(err))
	} else {
		s.logger.Debug(op+" refused", zap.String("id", id), zap.Error(err))
	}
	return err
}

// 询价参与方
const (
	partyBuyer = iota
	partySupplier
)

// authorize 操作人必须是报价所属询价的指定一方，否则按不存在处理；管理员与系统任务不受限
func (s *NegotiationService) authorize(ctx context.Context, repos *repository.Repositories, q *entity.Quotation, actor Actor, parties ...int) error {
	inquiry, err := s.loadInquiry(ctx, repos, q.InquiryID)
	if err != nil {
		return err
	}
	if !isParty(inquiry, actor, parties...) {
		return fmt.Errorf("quotation %s %w", q.ID, ErrNotFound)
	}
	return nil
}

// isParty 判断操作人是否为询价的指定一方
func isParty(inquiry *entity.Inquiry, actor Actor, parties ...int) bool {
	if actor.Role == RoleAdmin || actor.Role == RoleSystem {
		return true
	}
	if actor.ID == "" {
		return false
	}
	for _, p := range parties {
		switch p {
		case partyBuyer:
			if actor.ID == inquiry.BuyerID {
				return true
			}
		case partySupplier:
			if actor.ID == inquiry.SupplierID {
				return true
			}
		}
	}
	return false
}

// LookupInquiry 读取询价（不含报价），供调用方判断可见性
func (s *NegotiationService) LookupInquiry(ctx context.Context, id string) (*entity.Inquiry, error) {
	return s.loadInquiry(ctx, s.repos, id)
}

func (s *NegotiationService) loadQuotation(ctx context.Context, repos *repository.Repositories, id string) (*entity.Quotation, error) {
	q, err := repos.Quotation.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("quotation", id, err)
	}
	return q, nil
}

func (s *NegotiationService) loadInquiry(ctx context.Context, repos *repository.Repositories, id string) (*entity.Inquiry, error) {
	inquiry, err := repos.Inquiry.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("inquiry", id, err)
	}
	return inquiry, nil
}

// lockInquiry 锁定并重新读取询价
func (s *NegotiationService) lockInquiry(ctx context.Context, repos *repository.Repositories, id string) (*entity.Inquiry, error) {
	n, err := repos.Inquiry.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("inquiry %s %w", id, ErrNotFound)
	}
	return s.loadInquiry(ctx, repos, id)
}

func (s *NegotiationService) existingOrder(ctx context.Context, repos *repository.Repositories, quotationID string) (*entity.Order, error) {
	order, err := repos.Order.FindByQuotationID(ctx, quotationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: accepted quotation %s has no order", ErrStorageUnavailable, quotationID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// afterDuplicateOrder 订单唯一索引冲突后事务已回滚，按已提交的状态给出结果：
// 本报价已有订单则返回该订单，询价已由其他报价成交则为 ErrAlreadyAccepted，其余视为存储错误
func (s *NegotiationService) afterDuplicateOrder(ctx context.Context, quotationID string, dup error) (*entity.Order, error) {
	order, err := s.repos.Order.FindByQuotationID(ctx, quotationID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.fail("accept quotation", quotationID, err)
	}

	q, err := s.loadQuotation(ctx, s.repos, quotationID)
	if err != nil {
		return nil, s.fail("accept quotation", quotationID, err)
	}
	inquiry, err := s.loadInquiry(ctx, s.repos, q.InquiryID)
	if err != nil {
		return nil, s.fail("accept quotation", quotationID, err)
	}
	if inquiry.CloseReason == entity.InquiryCloseAccepted {
		return nil, fmt.Errorf("quotation %s: %w", quotationID, ErrAlreadyAccepted)
	}
	return nil, s.fail("accept quotation", quotationID, dup)
}

// conflict 条件更新未命中：按最新状态说明原因
func (s *NegotiationService) conflict(ctx context.Context, repos *repository.Repositories, id string, now time.Time) error {
	fresh, err := s.loadQuotation(ctx, repos, id)
	if err != nil {
		return err
	}
	if err := checkOpen(fresh, now); err != nil {
		return err
	}
	return invalidTransition("quotation %s was modified concurrently and is now %s", id, fresh.Status)
}

// checkOpen 报价必须未过期且处于非终态
func checkOpen(q *entity.Quotation, now time.Time) error {
	if isExpired(q, now) {
		return expiredError(q)
	}
	if q.IsTerminal() {
		return invalidTransition("quotation %s is already %s", q.ID, q.Status)
	}
	return nil
}

func isExpired(q *entity.Quotation, now time.Time) bool {
	return q.Status == entity.QuotationStatusExpired || q.IsExpiredAt(now)
}

func expiredError(q *entity.Quotation) error {
	return fmt.Errorf("%w (valid until %s)", ErrExpired, q.ValidUntil.UTC().Format(time.RFC3339))
}

func hasOpenOffer(offers []entity.CounterOffer) bool {
	for _, o := range offers {
		if o.Status == entity.CounterOfferStatusOpen {
			return true
		}
	}
	return false
}

func newEvent(typ string, inquiry *entity.Inquiry, q *entity.Quotation, actor Actor, at time.Time) notify.Event {
	ev := notify.Event{
		Type:       typ,
		InquiryID:  inquiry.ID,
		BuyerID:    inquiry.BuyerID,
		SupplierID: inquiry.SupplierID,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Timestamp:  at,
	}
	if q != nil {
		ev.QuotationID = q.ID
		if q.SupplierID != "" {
			ev.SupplierID = q.SupplierID
		}
	}
	return ev
}

func rejectionEvents(inquiry *entity.Inquiry, rejected []entity.Quotation, reason string, actor Actor, at time.Time) []notify.Event {
	events := make([]notify.Event, 0, len(rejected))
	for i := range rejected {
		ev := newEvent(notify.EventQuotationRejected, inquiry, &rejected[i], actor, at)
		ev.FromStatus, ev.ToStatus = rejected[i].Status, entity.QuotationStatusRejected
		ev.Content = reason
		events = append(events, ev)
	}
	return events
}
