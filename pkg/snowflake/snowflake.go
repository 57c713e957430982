package snowflake

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// 多实例部署时 BINGO_NODE_ID 需各不相同，取值 0-1023
const nodeEnv = "BINGO_NODE_ID"

var (
	once sync.Once
	node *snowflake.Node
)

func current() *snowflake.Node {
	once.Do(func() {
		id, err := strconv.ParseInt(os.Getenv(nodeEnv), 10, 64)
		if err != nil {
			id = 1
		}
		if node, err = snowflake.NewNode(id); err != nil {
			node, _ = snowflake.NewNode(1)
		}
	})
	return node
}

// GenID 全局唯一，同一节点内单调递增
func GenID() uint64 {
	return uint64(current().Generate().Int64())
}

// GenUserID 账号和资料共用同一个 id
func GenUserID() uint64 {
	return GenID()
}
