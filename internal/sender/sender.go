// Package sender 定义通知投递的传输层接口。
//
// 分发逻辑只依赖 Sender 接口；默认实现 SimulatedSender 以固定概率模拟
// 投递结果，测试中可注入确定性的实现。接入真实渠道（SMTP、短信、推送）时
// 实现同一接口即可。
package sender

import (
	"context"
	"errors"
	"math/rand"
)

// ErrSimulatedFailure 模拟投递失败
var ErrSimulatedFailure = errors.New("Simulated failure")

// DefaultSuccessRate 模拟投递默认成功率
const DefaultSuccessRate = 0.9

// Message 一次投递请求
type Message struct {
	Channel   string
	Recipient string
	Subject   string
	Body      string
}

// Sender 传输层投递接口；返回 nil 表示投递成功
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Func 将普通函数适配为 Sender
type Func func(ctx context.Context, msg Message) error

// Send 实现 Sender
func (f Func) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// SimulatedSender 以 successRate 概率返回成功的模拟投递
type SimulatedSender struct {
	successRate float64
	roll        func() float64
}

// NewSimulatedSender 创建模拟投递器
// roll 返回 [0,1) 区间随机数，为 nil 时使用 math/rand
func NewSimulatedSender(successRate float64, roll func() float64) *SimulatedSender {
	if roll == nil {
		roll = rand.Float64
	}
	return &SimulatedSender{successRate: successRate, roll: roll}
}

// Send 实现 Sender
func (s *SimulatedSender) Send(ctx context.Context, _ Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.roll() < s.successRate {
		return nil
	}
	return ErrSimulatedFailure
}

// AlwaysSucceed 总是投递成功
var AlwaysSucceed Sender = Func(func(context.Context, Message) error { return nil })

// AlwaysFail 总是返回 ErrSimulatedFailure
var AlwaysFail Sender = Func(func(context.Context, Message) error { return ErrSimulatedFailure })
