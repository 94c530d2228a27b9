package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "named zone", timezone: "Europe/Berlin"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestGetTimeProvider(t *testing.T) {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()

	provider := GetTimeProvider()
	require.NotNil(t, provider)
	assert.Equal(t, time.UTC, provider.Location())

	assert.Same(t, provider, GetTimeProvider())
}

func TestTimeProvider_SetTimezone(t *testing.T) {
	provider := &TimeProvider{}

	tests := []struct {
		name     string
		timezone string
		wantLoc  string
		wantErr  bool
	}{
		{name: "set to UTC", timezone: "UTC", wantLoc: "UTC"},
		{name: "empty string defaults to UTC", timezone: "", wantLoc: "UTC"},
		{name: "set to Asia/Tokyo", timezone: "Asia/Tokyo", wantLoc: "Asia/Tokyo"},
		{name: "set to Local", timezone: "Local", wantLoc: "Local"},
		{name: "invalid timezone", timezone: "Not/A/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provider.SetTimezone(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoc, provider.Location().String())
		})
	}
}

func TestTimeProvider_Concurrency(t *testing.T) {
	provider := &TimeProvider{}
	require.NoError(t, provider.SetTimezone("UTC"))

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = provider.In(time.Now())
			_ = provider.Format(time.Now(), time.RFC3339)
		}()
	}

	timezones := []string{"UTC", "Asia/Shanghai", "America/New_York", "Europe/London"}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := provider.SetTimezone(timezones[idx%len(timezones)]); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent operation error: %v", err)
	}
}

func TestTimeProvider_In(t *testing.T) {
	provider := &TimeProvider{}
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		timezone     string
		expectedHour int
	}{
		{"UTC", 12},
		{"Asia/Shanghai", 20},
		{"America/New_York", 8},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			require.NoError(t, provider.SetTimezone(tt.timezone))
			assert.Equal(t, tt.expectedHour, provider.In(testTime).Hour())
		})
	}
}

func TestInitializeTimeProvider_ErrorMessage(t *testing.T) {
	err := InitializeTimeProvider("Invalid/Zone")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "invalid timezone 'Invalid/Zone'")
	assert.Contains(t, err.Error(), "Valid examples:")
}
