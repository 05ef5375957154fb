// Package pose converts camera poses between 4x4 homogeneous
// camera-to-world matrices and unit quaternions.
//
// Matrices are row-major fixed arrays: Matrix4 is [16]float64 laid out
// m00,m01,m02,m03, m10,..., and Matrix3 is the [9]float64 rotation block.
// Quaternions are gonum quat.Number values with Real=w, Imag=x, Jmag=y,
// Kmag=z.
//
// Pose files hold one pose per line as 16 whitespace-separated numbers.
// LoadPoses negates the Y and Z camera axes on load, which converts between
// the OpenGL/Blender camera convention (Y up, looking down -Z) and the
// computer-vision convention (Y down, looking down +Z).
//
// MatrixToQuaternion uses the single trace branch of the matrix to
// quaternion conversion. It divides by 4w and so returns Inf or NaN
// components for rotations near 180 degrees. MatrixToQuaternionRobust
// selects among all four branches and is finite for every rotation.
//
// Every function is pure and safe for concurrent use.
package pose
