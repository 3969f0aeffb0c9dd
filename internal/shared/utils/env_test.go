package utils

import "testing"

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("GALAXY_TEST_STR", "")
	t.Setenv("GALAXY_TEST_INT", "nope")
	t.Setenv("GALAXY_TEST_FLOAT", "2.5")
	t.Setenv("GALAXY_TEST_BOOL", "true")

	if got := GetEnv("GALAXY_TEST_STR", "dflt"); got != "dflt" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnvInt("GALAXY_TEST_INT", 7); got != 7 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvFloat("GALAXY_TEST_FLOAT", 1); got != 2.5 {
		t.Errorf("GetEnvFloat = %v", got)
	}
	if got := GetEnvBool("GALAXY_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool = %v", got)
	}
	if got := GetEnvInt64("GALAXY_TEST_MISSING", 42); got != 42 {
		t.Errorf("GetEnvInt64 = %d", got)
	}
}
