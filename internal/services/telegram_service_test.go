package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/tbourn/go-health-backend/internal/repo"
)

func TestTelegramService_SettingsDefaultsAndUpdate(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "tg@example.com")
	s := NewTelegramService(db)

	def, err := s.Settings(ctx, u.ID)
	if err != nil || def.ID != 0 || !def.NotificationsEnabled || def.MetricReminders {
		t.Fatalf("defaults: %+v, %v", def, err)
	}

	times := []string{"21:00", "08:15", "21:00"}
	st, err := s.UpdateSettings(ctx, u.ID, TelegramSettingsInput{MetricReminders: ptr(true), ReminderTimes: &times})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !st.MetricReminders || !st.NotificationsEnabled || !reflect.DeepEqual([]string(st.ReminderTimes), []string{"08:15", "21:00"}) {
		t.Fatalf("after update: %+v", st)
	}

	st, err = s.UpdateSettings(ctx, u.ID, TelegramSettingsInput{NotificationsEnabled: ptr(false)})
	if err != nil || st.NotificationsEnabled || !st.MetricReminders || len(st.ReminderTimes) != 2 {
		t.Fatalf("partial update lost fields: %+v, %v", st, err)
	}

	empty := []string{}
	st, _ = s.UpdateSettings(ctx, u.ID, TelegramSettingsInput{ReminderTimes: &empty})
	if len(st.ReminderTimes) != 0 {
		t.Fatalf("empty list should clear: %+v", st.ReminderTimes)
	}

	bad := []string{"8:15"}
	_, err = s.UpdateSettings(ctx, u.ID, TelegramSettingsInput{ReminderTimes: &bad})
	wantValidation(t, err)
}

func TestTelegramService_Logs(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "tglogs@example.com")
	s := NewTelegramService(db)

	for _, a := range []string{"auth", "reminder", "connect"} {
		if _, err := repo.CreateTelegramLog(ctx, db, u.ID, a, nil); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	logs, err := s.Logs(ctx, u.ID, 2)
	if err != nil || len(logs) != 2 || logs[0].ActionType != "connect" {
		t.Fatalf("logs: %+v, %v", logs, err)
	}
}
