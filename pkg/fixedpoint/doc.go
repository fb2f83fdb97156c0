// Package fixedpoint 实现定点小数编码：把一个带符号的十进制数压缩进一个 8 字节的字。
//
// 字的位布局（小端序写出）：
//
//	bit 63..60  保留，必须为 0
//	bit 59..56  指数 exponent（0..15）
//	bit 55      符号位（0 非负，1 负）
//	bit 54..0   尾数绝对值
//
// 表示的实际数值为 mantissa * 10^-exponent。全零的字表示指数为 0 的零值。
// 相等与大小比较都基于放大到较大指数之后的尾数，原始位相等只作为快速路径。
package fixedpoint
