package utils

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"runtime"

	"github.com/speps/go-hashids/v2"
)

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}

// GenHashID id 转短字符串，用于默认用户名
func GenHashID(salt string, id uint64) string {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return fmt.Sprintf("%d", id)
	}
	e, err := h.EncodeInt64([]int64{int64(id & (1<<63 - 1))})
	if err != nil {
		return fmt.Sprintf("%d", id)
	}
	return e
}

// RandDigits 指定位数的数字验证码
func RandDigits(n int) (string, error) {
	buf := make([]byte, n)
	for i := range buf {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + v.Int64())
	}
	return string(buf), nil
}
