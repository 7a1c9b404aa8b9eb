package words

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns the puzzle day key, YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailyWord deterministically picks the puzzle word for a date from the
// requested length bucket: HMAC(salt, day key) modulo the bucket size. The
// sequence is stable for a deployment but not readable off the calendar.
// Degrades the same way RandomWord does when the bucket is empty.
func (d *Dictionary) DailyWord(date time.Time, salt string, length int) string {
	bucket := d.bucketOrDefault(length)
	if len(bucket) == 0 {
		return FallbackWord
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return bucket[int(n%uint64(len(bucket)))]
}
