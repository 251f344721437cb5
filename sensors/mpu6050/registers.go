package mpu6050

const (
	MPU_ADDRESS1 = 0x68 // AD0 low
	MPU_ADDRESS2 = 0x69 // AD0 high

	MPU6050_DEVICE_ID = 0x68 // WHO_AM_I contents

	MPUREG_SMPLRT_DIV   = 0x19
	MPUREG_CONFIG       = 0x1A
	MPUREG_GYRO_CONFIG  = 0x1B
	MPUREG_ACCEL_CONFIG = 0x1C
	MPUREG_ACCEL_XOUT_H = 0x3B // Start of the 14-byte accel/temp/gyro block
	MPUREG_PWR_MGMT_1   = 0x6B
	MPUREG_WHOAMI       = 0x75

	// Configuration bits
	BIT_H_RESET          = 0x80
	BIT_SLEEP            = 0x40 // PWR_MGMT_1 reads back exactly this after a reset
	MPU_CLK_SEL_PLLGYROX = 0x01
	BITS_FS_500DPS       = 0x08
	BITS_FS_2G           = 0x00
	BITS_DLPF_CFG_260HZ  = 0x00

	// ACCEL_CONFIG AFS_SEL field, bits [4:3]
	BITS_AFS_SEL_SHIFT = 3
	BITS_AFS_SEL_MASK  = 0x18

	dataBlockLen = 14
)

// Sensitivities
const (
	scaleGyro500 = 65.5 // LSB/(deg/s) at +/-500 dps

	tempOffset = 12412.0
	tempScale  = 340.0
)
