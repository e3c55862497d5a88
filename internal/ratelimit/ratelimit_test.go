package ratelimit

import "testing"

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1, 2)
	defer krl.Stop()

	if !krl.Allow("10.0.0.1") {
		t.Error("first request should pass")
	}
	if !krl.Allow("10.0.0.1") {
		t.Error("second request should pass within burst")
	}
	if krl.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("10.0.0.1") {
		t.Error("first key should pass")
	}
	if !krl.Allow("10.0.0.2") {
		t.Error("second key has its own bucket")
	}
}
