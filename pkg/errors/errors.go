package errors

import "errors"

// ErrTimeConflict 预订时段冲突：同桌同日已存在重叠的他人预订。
// 由仓储层的加锁冲突检查事务抛出，Service 层包装为面向用户的提示。
var ErrTimeConflict = errors.New("预订时段与已有预订重叠")
