package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const lsblkSample = `sda    disk 512110190592 0
sda1   part 536870912    0
sr0    rom  1073741824   1
loop0  loop 4096         0
nvme0n1 disk 1024209543168 0
`

func TestScrapeLsblkTotal(t *testing.T) {
	// Only whole disks count: partitions, loops and optical media are not
	// part of the machine's storage identity.
	assert.Equal(t, "1536319733760", scrapeLsblkTotal(lsblkSample))
	assert.Equal(t, "", scrapeLsblkTotal("loop0 loop 4096 0\n"))
	assert.Equal(t, "", scrapeLsblkTotal(""))
}

func TestScrapeLsblkType(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"sata ssd", "sda disk 512110190592 0\n", "SSD"},
		{"spinning disk", "sda disk 2000398934016 1\n", "HDD"},
		{"nvme", "nvme0n1 disk 1024209543168 0\n", "NVMe SSD"},
		{"skips virtual devices", "loop0 loop 4096 0\nsdb disk 1000204886016 1\n", "HDD"},
		{"no disks", "sr0 rom 1073741824 1\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrapeLsblkType(tt.out))
		})
	}
}

func TestStorageTotalFromSysfs(t *testing.T) {
	fs := newFakeFS()
	fs.dirs = []string{"/sys/block/sda", "/sys/block/loop0"}
	fs.files["/sys/block/sda/size"] = "1000215216\n" // 512-byte sectors
	fs.files["/sys/block/loop0/size"] = "8192\n"
	src := newTestSource(newFakeRunner(), fs, capsWith(CapBlock))

	raw, unit := storageTotalFromSysfs(context.Background(), src)
	assert.Equal(t, "512110190592", raw)
	assert.Equal(t, "B", unit)
}

func TestStorageTypeFromSysfs(t *testing.T) {
	fs := newFakeFS()
	fs.dirs = []string{"/sys/block/nvme0n1"}
	fs.files["/sys/block/nvme0n1/queue/rotational"] = "0\n"
	src := newTestSource(newFakeRunner(), fs, capsWith(CapBlock))

	raw, _ := storageTypeFromSysfs(context.Background(), src)
	assert.Equal(t, "NVMe SSD", raw)
}

func TestStorageSysfsEmpty(t *testing.T) {
	src := newTestSource(newFakeRunner(), newFakeFS(), capsWith(CapBlock))

	raw, _ := storageTotalFromSysfs(context.Background(), src)
	assert.Empty(t, raw)
	raw, _ = storageTypeFromSysfs(context.Background(), src)
	assert.Empty(t, raw)
}
