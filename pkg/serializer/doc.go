// Package serializer 按类型在三条路径之间分派序列化：
//
//   - 定长路径：类型有固定大小，直接写入目标缓冲区，不加帧头。
//   - 暂存路径：类型自行写出变长载荷，写入时加 8 字节帧头，标记为 staged。
//   - 回退路径：类型未知，由回退编码器产出自描述载荷，同样加帧头。
//
// 先 ProbeSize 再 Write 时，Probe 中暂存的载荷会被 Write 直接复用并释放，
// 不会重复编码。目标缓冲区由调用方提供，不会被扩容，空间不足时不写入任何字节。
package serializer
