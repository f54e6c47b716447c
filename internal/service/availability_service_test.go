package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"tablebook/internal/dto"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

// ── 测试辅助 ──

const (
	testLocationID = "a0000000-0000-0000-0000-000000000001"
	testTableID    = "b0000000-0000-0000-0000-000000000001"
	testDate       = "2030-05-20" // 远期日期，避免"过去日期"校验干扰
)

func setupTestAvailabilityService() (AvailabilityService, *mockTableRepo, *mockReservationRepo) {
	locationRepo := newMockLocationRepo()
	locationRepo.locations[testLocationID] = &model.Location{
		LocationID: testLocationID,
		Name:       "外滩店",
		Address:    "中山东一路18号",
		IsActive:   true,
	}

	tableRepo := newMockTableRepo(locationRepo)
	tableRepo.tables[testTableID] = &model.RestaurantTable{
		TableID:     testTableID,
		TableNumber: "A1",
		Capacity:    4,
		LocationID:  testLocationID,
		IsActive:    true,
	}

	resRepo := newMockReservationRepo()
	repo := &repository.Repository{
		User:        newMockUserRepo(),
		Location:    locationRepo,
		Table:       tableRepo,
		Reservation: resRepo,
	}

	svc := NewAvailabilityService(defaultBookingConfig(), repo, zap.NewNop())
	return svc, tableRepo, resRepo
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}

func addReservation(resRepo *mockReservationRepo, id, tableID, from, to, email, status string, date time.Time) {
	resRepo.reservations[id] = &model.Reservation{
		ReservationID:   id,
		Date:            date,
		TimeFrom:        from,
		TimeTo:          to,
		TableID:         tableID,
		TableNumber:     "A1",
		LocationID:      testLocationID,
		LocationAddress: "中山东一路18号",
		GuestsNumber:    2,
		Status:          status,
		UserInfo:        "测试用户",
		UserEmail:       email,
	}
}

// ── 基础查询测试 ──

func TestAvailability_FullGridWhenNoReservations(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望 1 张餐桌，实际 %d", len(result))
	}
	if len(result[0].AvailableSlots) != 7 {
		t.Errorf("无预订时应返回全部 7 个时段，实际 %d", len(result[0].AvailableSlots))
	}
	if result[0].LocationAddress != "中山东一路18号" {
		t.Errorf("期望门店地址透出，实际 %q", result[0].LocationAddress)
	}
}

func TestAvailability_BookedSlotExcluded(t *testing.T) {
	// 10:30-11:00 的预订应恰好挡掉 10:00-11:30 一个时段
	svc, _, resRepo := setupTestAvailabilityService()
	addReservation(resRepo, "r1", testTableID, "10:30", "11:00", "other@example.com", model.StatusReserved, mustDate(t, testDate))

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	slots := result[0].AvailableSlots
	if len(slots) != 6 {
		t.Fatalf("期望 6 个时段，实际 %d", len(slots))
	}
	for _, s := range slots {
		if s.Start == "10:00" {
			t.Error("10:00-11:30 应被排除")
		}
	}
}

func TestAvailability_CancelledReservationFreesSlot(t *testing.T) {
	svc, _, resRepo := setupTestAvailabilityService()
	addReservation(resRepo, "r1", testTableID, "10:30", "11:00", "other@example.com", model.StatusCancelled, mustDate(t, testDate))

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(result[0].AvailableSlots) != 7 {
		t.Errorf("已取消的预订不应占用时段，期望 7 个，实际 %d", len(result[0].AvailableSlots))
	}
}

func TestAvailability_FullyBookedTableOmitted(t *testing.T) {
	svc, _, resRepo := setupTestAvailabilityService()
	addReservation(resRepo, "r1", testTableID, "06:30", "18:30", "other@example.com", model.StatusReserved, mustDate(t, testDate))

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("全天占满的餐桌不应出现在结果中，实际返回 %d 张", len(result))
	}
}

// ── 容量过滤测试 ──

func TestAvailability_CapacityFilter(t *testing.T) {
	svc, tableRepo, _ := setupTestAvailabilityService()
	tableRepo.tables["b0000000-0000-0000-0000-000000000002"] = &model.RestaurantTable{
		TableID:     "b0000000-0000-0000-0000-000000000002",
		TableNumber: "B8",
		Capacity:    8,
		LocationID:  testLocationID,
		IsActive:    true,
	}

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Guests:     6,
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(result) != 1 || result[0].TableNumber != "B8" {
		t.Errorf("6 人应只匹配 8 座桌，实际 %v", result)
	}
}

func TestAvailability_GuestsDefaultsToOne(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Guests:     0,
	})
	if err != nil {
		t.Fatalf("人数缺省应按 1 处理: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("期望 1 张餐桌，实际 %d", len(result))
	}
}

func TestAvailability_GuestsOutOfRange(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Guests:     11,
	})
	if !errors.Is(err, ErrInvalidGuests) {
		t.Errorf("期望 ErrInvalidGuests，实际: %v", err)
	}
}

// ── 指定时刻收窄测试 ──

func TestAvailability_RequestedTimeInsideSlot(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Time:       "10:30",
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	slots := result[0].AvailableSlots
	if len(slots) != 1 || slots[0].Start != "10:00" {
		t.Errorf("10:30 应命中 10:00-11:30 单一时段，实际 %v", slots)
	}
}

func TestAvailability_RequestedTimeOnSlotEnd(t *testing.T) {
	// 时段端点按闭区间匹配：11:30 命中 10:00-11:30 而非后续最近时段
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Time:       "11:30",
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	slots := result[0].AvailableSlots
	if len(slots) != 1 || slots[0].Start != "10:00" {
		t.Errorf("11:30 应命中 10:00-11:30，实际 %v", slots)
	}
}

func TestAvailability_RequestedTimeNearestWithinTolerance(t *testing.T) {
	// 09:55 落在间隔内，距 10:00 起点 5 分钟（容差内）
	svc, _, _ := setupTestAvailabilityService()

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Time:       "09:55",
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	slots := result[0].AvailableSlots
	if len(slots) != 1 || slots[0].Start != "10:00" {
		t.Errorf("09:55 应收窄到 10:00-11:30，实际 %v", slots)
	}
}

func TestAvailability_RequestedTimeTooFarFromFreeSlots(t *testing.T) {
	// 11:45-13:15 已被他人订走；请求 11:50 时相邻空闲时段起点
	// 距离分别为 110 和 100 分钟，均超容差，整桌不返回
	svc, _, resRepo := setupTestAvailabilityService()
	addReservation(resRepo, "r1", testTableID, "11:45", "13:15", "other@example.com", model.StatusReserved, mustDate(t, testDate))

	result, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Time:       "11:50",
	})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("无容差内可订时段的餐桌应被省略，实际 %v", result)
	}
}

// ── 参数与存在性校验测试 ──

func TestAvailability_PastDate(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       "2020-01-01",
	})
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("期望 ErrPastDate，实际: %v", err)
	}
}

func TestAvailability_InvalidDate(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       "05/20/2030",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestAvailability_InvalidTime(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: testLocationID,
		Date:       testDate,
		Time:       "25:00",
	})
	if !errors.Is(err, ErrInvalidTime) {
		t.Errorf("期望 ErrInvalidTime，实际: %v", err)
	}
}

func TestAvailability_NonCanonicalTimeRejected(t *testing.T) {
	// "9:00" 若放行会按字典序排在 "09:45" 之后，包含判定失真，
	// 含 09:00 的空闲时段会被漏掉；必须在入口处整体拒绝
	svc, _, _ := setupTestAvailabilityService()

	for _, bad := range []string{"9:00", "10:5", "10:00:00"} {
		_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
			LocationID: testLocationID,
			Date:       testDate,
			Time:       bad,
		})
		if !errors.Is(err, ErrInvalidTime) {
			t.Errorf("time=%q 期望 ErrInvalidTime，实际: %v", bad, err)
		}
	}
}

func TestAvailability_LocationNotFound(t *testing.T) {
	svc, _, _ := setupTestAvailabilityService()

	_, err := svc.GetAvailableTables(context.Background(), &dto.AvailabilityRequest{
		LocationID: "a0000000-0000-0000-0000-0000000000ff",
		Date:       testDate,
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/availability_service_test.go
