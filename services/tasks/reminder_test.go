package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	providerRepo "shinely/database/repository/provider"
	"shinely/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{}, nil
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) interface{} {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value()
		}
	}
	return nil
}

func newScheduler(enq Enqueuer) *ReminderScheduler {
	return &ReminderScheduler{
		Client:    enq,
		Providers: providerRepo.NewMemoryProviderRepo(models.Provider{ID: "prov-1", Schedule: models.ProviderSchedule{Timezone: "America/New_York"}}),
		Lead:      time.Hour,
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestScheduleReminder(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := newScheduler(enq)
	appt := models.Appointment{ID: "a1", ProviderID: "prov-1", ScheduledDate: "2025-03-03", ScheduledTime: 600, RescheduleCount: 1}

	require.NoError(t, s.ScheduleReminder(context.Background(), appt))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeSendReminder, enq.tasks[0].Type())

	var p models.ReminderPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, "a1", p.AppointmentID)
	assert.Equal(t, 1, p.RescheduleCount)

	assert.Equal(t, "reminder:a1:1", optionValue(enq.opts[0], asynq.TaskIDOpt))
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	fireAt, ok := optionValue(enq.opts[0], asynq.ProcessAtOpt).(time.Time)
	require.True(t, ok)
	assert.True(t, fireAt.Equal(time.Date(2025, 3, 3, 9, 0, 0, 0, ny)))
}

func TestScheduleReminderSkipsStartedAppointments(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := newScheduler(enq)
	appt := models.Appointment{ID: "a1", ProviderID: "prov-1", ScheduledDate: "2025-02-28", ScheduledTime: 600}

	require.NoError(t, s.ScheduleReminder(context.Background(), appt))
	assert.Empty(t, enq.tasks)
}

func TestScheduleReminderIgnoresDuplicate(t *testing.T) {
	s := newScheduler(&fakeEnqueuer{err: asynq.ErrTaskIDConflict})
	appt := models.Appointment{ID: "a1", ProviderID: "prov-1", ScheduledDate: "2025-03-03", ScheduledTime: 600}
	assert.NoError(t, s.ScheduleReminder(context.Background(), appt))

	s = newScheduler(&fakeEnqueuer{err: assert.AnError})
	assert.ErrorIs(t, s.ScheduleReminder(context.Background(), appt), assert.AnError)
}
