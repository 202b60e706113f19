package sdk

// Int64Ptr is a convenience helper for optional id fields.
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr is a convenience helper for optional int fields.
func IntPtr(v int) *int { return &v }
