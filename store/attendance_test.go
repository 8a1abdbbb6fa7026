package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/D3-crypto/ems-api/models"
)

func TestAttendanceStore_PunchLifecycle(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	pointer, err := att.PunchIn(user, "Office", "13.7563", "100.5018")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-01", pointer.Date)
	assert.Equal(t, "09:00:00", pointer.Time)
	assert.Equal(t, user.Email, pointer.Email)

	current, err := att.CurrentPunch(user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, current)

	records, err := att.ByUser(user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, models.ActionTypePunchIn, records[0].ActionType)
	assert.Nil(t, records[0].PunchedOutAt)

	clk.advance(9 * time.Hour)
	completed, err := att.PunchOut(user, "Office", "13.7563", "100.5018")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-01", completed.Date)
	assert.Equal(t, "09:00:00", completed.Time)
	assert.Equal(t, "2024-01-01", completed.PunchedOutDate)
	assert.Equal(t, "18:00:00", completed.PunchedOutTime)
	assert.NotNil(t, completed.PunchedOutAt)

	current, err = att.CurrentPunch(user.ID)
	assert.NoError(t, err)
	assert.Nil(t, current)

	// ประวัติยังเป็นแถวเดียว ข้อมูลเข้าและออกอยู่ด้วยกัน
	records, err = att.ByUser(user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceStore_PunchIn_WhileStillIn(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	_, err := att.PunchIn(user, "Office", "", "")
	assert.NoError(t, err)

	clk.advance(time.Minute)
	_, err = att.PunchIn(user, "Office", "", "")
	assert.ErrorIs(t, err, ErrAlreadyPunchedIn)

	records, err := att.ByUser(user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceStore_PunchIn_SameDayAfterPunchOut(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	_, err := att.PunchIn(user, "Office", "", "")
	assert.NoError(t, err)
	clk.advance(4 * time.Hour)
	_, err = att.PunchOut(user, "Office", "", "")
	assert.NoError(t, err)

	// วันเดียวกันเข้าใหม่ไม่ได้ แม้จะออกไปแล้ว
	clk.advance(time.Hour)
	_, err = att.PunchIn(user, "Office", "", "")
	assert.ErrorIs(t, err, ErrAlreadyPunchedInToday)

	// วันถัดไปเข้าได้ตามปกติ
	clk.advance(24 * time.Hour)
	_, err = att.PunchIn(user, "Office", "", "")
	assert.NoError(t, err)

	records, err := att.ByUser(user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAttendanceStore_PunchOut_WithoutPunchIn(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	_, err := att.PunchOut(user, "Office", "", "")
	assert.ErrorIs(t, err, ErrNotPunchedIn)

	// ล้มแล้วต้องไม่เขียนอะไรเลย
	records, err := att.ByUser(user.ID, "")
	assert.NoError(t, err)
	assert.Len(t, records, 0)
}

func TestAttendanceStore_OvernightShift(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	clk.advance(14*time.Hour + 50*time.Minute) // 23:50 ของวันแรก
	_, err := att.PunchIn(user, "Office", "", "")
	assert.NoError(t, err)

	clk.advance(30 * time.Minute) // ข้ามเที่ยงคืนไป 00:20
	completed, err := att.PunchOut(user, "Office", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-01", completed.Date)
	assert.Equal(t, "2024-01-02", completed.PunchedOutDate)

	// ประวัติของกะข้ามคืนอยู่ที่วันที่เข้า วันใหม่เข้าได้อีก
	_, err = att.PunchIn(user, "Office", "", "")
	assert.NoError(t, err)
}

func TestAttendanceStore_ConcurrentPunchIn_OneWinner(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	user := createVerifiedUser(t, db, clk, "somchai@ems.th")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = att.PunchIn(user, "Office", "", "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		ok := errors.Is(err, ErrAlreadyPunchedIn) || errors.Is(err, ErrAlreadyPunchedInToday)
		assert.True(t, ok, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)

	var pointers, records int64
	assert.NoError(t, db.Model(&models.PunchedIn{}).Where("user_id = ?", user.ID).Count(&pointers).Error)
	assert.NoError(t, db.Model(&models.Attendance{}).Where("user_id = ?", user.ID).Count(&records).Error)
	assert.Equal(t, int64(1), pointers)
	assert.Equal(t, int64(1), records)
}

func TestAttendanceStore_Queries(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	somchai := createVerifiedUser(t, db, clk, "somchai@ems.th")
	somsri := createVerifiedUser(t, db, clk, "somsri@ems.th")

	punchDay := func(u *models.User) {
		t.Helper()
		_, err := att.PunchIn(u, "Office", "", "")
		assert.NoError(t, err)
		clk.advance(8 * time.Hour)
		_, err = att.PunchOut(u, "Office", "", "")
		assert.NoError(t, err)
		clk.advance(16 * time.Hour)
	}

	punchDay(somchai) // 2024-01-01
	punchDay(somchai) // 2024-01-02
	punchDay(somsri)  // 2024-01-03
	punchDay(somchai) // 2024-01-04

	all, err := att.All()
	assert.NoError(t, err)
	assert.Len(t, all, 4)
	// ใหม่สุดขึ้นก่อน
	assert.Equal(t, "2024-01-04", all[0].Date)
	assert.Equal(t, "2024-01-01", all[3].Date)

	window, err := att.ByDateRange("2024-01-02", "2024-01-03")
	assert.NoError(t, err)
	assert.Len(t, window, 2)
	assert.Equal(t, "2024-01-03", window[0].Date)
	assert.Equal(t, "2024-01-02", window[1].Date)

	mine, err := att.ByUser(somchai.ID, "")
	assert.NoError(t, err)
	assert.Len(t, mine, 3)

	day, err := att.ByUser(somchai.ID, "2024-01-02")
	assert.NoError(t, err)
	assert.Len(t, day, 1)
	assert.Equal(t, "2024-01-02", day[0].Date)

	ranged, err := att.ByUserDateRange(somchai.ID, "2024-01-02", "2024-01-04")
	assert.NoError(t, err)
	assert.Len(t, ranged, 2)
	assert.Equal(t, "2024-01-04", ranged[0].Date)
	assert.Equal(t, "2024-01-02", ranged[1].Date)
}

func TestAttendanceStore_DailyAndCounts(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	att := NewAttendanceStore(db)
	att.now = clk.now
	somchai := createVerifiedUser(t, db, clk, "somchai@ems.th")
	somsri := createVerifiedUser(t, db, clk, "somsri@ems.th")

	_, err := att.PunchIn(somchai, "Office", "", "")
	assert.NoError(t, err)
	clk.advance(time.Hour)
	_, err = att.PunchIn(somsri, "Site A", "", "")
	assert.NoError(t, err)

	in, err := att.CountPunchedIn()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), in)

	day, err := att.ByDate("2024-01-01")
	assert.NoError(t, err)
	assert.Len(t, day, 2)
	// เรียงตามเวลาเข้า ใครมาก่อนอยู่บน
	assert.Equal(t, somchai.ID, day[0].UserID)
	assert.Equal(t, somsri.ID, day[1].UserID)

	clk.advance(7 * time.Hour)
	_, err = att.PunchOut(somchai, "Office", "", "")
	assert.NoError(t, err)

	in, err = att.CountPunchedIn()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), in)

	empty, err := att.ByDate("2024-01-02")
	assert.NoError(t, err)
	assert.Len(t, empty, 0)
}
